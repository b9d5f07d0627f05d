package cli

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
)

func newFiltersCommand(s *session) *cobra.Command {
	var technology string

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List the filterable fields of a technology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tech, err := s.technology(technology)
			if err != nil {
				return err
			}
			descs, err := s.app.Descriptors.Get(cmd.Context(), tech)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Key", "Type", "Nullable", "Filter", "Operators"})
			table.SetAutoFormatHeaders(false)
			for _, col := range grid.Columns(descs) {
				table.Append([]string{
					col.Field,
					string(fieldType(descs, col.Field)),
					strconv.FormatBool(col.Nullable),
					col.Filter,
					joinOperators(col.Operators),
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&technology, "technology", "t", "", "backend technology (default: first configured)")
	return cmd
}

func fieldType(descs []search.FieldDescriptor, key string) search.FieldType {
	for _, d := range descs {
		if d.Key == key {
			return d.FieldType
		}
	}
	return ""
}

func joinOperators(ops []search.Operator) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, ", ")
}

// technology resolves the --technology flag, falling back to the first configured one.
func (s *session) technology(flag string) (search.Technology, error) {
	if flag != "" {
		return search.ParseTechnology(flag)
	}
	if len(s.app.Technologies) == 0 {
		return search.TechnologyNone, nil
	}
	return s.app.Technologies[0], nil
}
