/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fields.go
Description: fields command. Prints every rendered record field of one sample file as a
table.
*/

package commands

import (
	"io"

	"github.com/kleascm/structgen/pkg/render"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunFields executes the fields command
func RunFields(cmd *cobra.Command, args []string) error {
	root, err := inferFile(cmd, args[0])
	if err != nil {
		return err
	}

	order, _ := render.ParseOrder(viper.GetString("order"))
	target := render.GoTarget()
	decls, err := render.Render(root, render.Options{
		OmitEmpty: viper.GetBool("omit_empty"),
		Order:     order,
		Target:    target,
	})
	if err != nil {
		return err
	}

	FieldsTable(cmd.OutOrStdout(), decls, target)
	return nil
}

// FieldsTable writes one row per declared field
func FieldsTable(w io.Writer, decls []render.Declaration, target render.Target) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Record", "Field", "Type", "Tag"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, d := range decls {
		for _, f := range d.Fields {
			table.Append([]string{d.Name, f.Name, f.Type, target.Tag(f)})
		}
	}
	table.Render()
}
