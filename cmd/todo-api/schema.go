package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"todo_api/internal/database"
)

func newSchemaCmd() *cobra.Command {
	var dialect string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL that bootstraps the todos table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := database.ParseDialect(dialect)
			if err != nil {
				return err
			}
			ddl, err := database.Schema(d)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), ddl)
			return err
		},
	}
	cmd.Flags().StringVar(&dialect, "dialect", string(database.Postgres), "SQL dialect: postgres or sqlite")
	return cmd
}
