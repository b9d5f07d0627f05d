package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gridsearch/internal/domain/datasource"
	"gridsearch/internal/domain/grid"
	"gridsearch/internal/domain/search"
	"gridsearch/internal/metadata"
)

type rowsOptions struct {
	technology  string
	start       int
	end         int
	sorts       []string
	filters     []string
	filterModel string
	text        string
	output      string
}

func newRowsCommand(s *session) *cobra.Command {
	opts := &rowsOptions{}

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Fetch one row window",
		Long: `Fetch rows [start, end) the way a data grid does.

Filters use the grid's native filter state, one column per flag:
  --filter 'name={"filterType":"text","type":"contains","filter":"ubu"}'
  --filter 'releaseDate={"filterType":"date","type":"inRange","dateFrom":"2023-01-01","dateTo":"2023-12-31"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tech, err := s.technology(opts.technology)
			if err != nil {
				return err
			}
			req, err := opts.request()
			if err != nil {
				return err
			}

			source := s.app.Factory.New(datasource.Params{Technology: tech, FullText: opts.text})
			block, err := source.Fetch(cmd.Context(), req)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"rows":           block.Rows,
					"lastRow":        block.LastRow,
					"responseTimeMs": block.Elapsed.Milliseconds(),
				})
			}
			return renderRows(cmd, block)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.technology, "technology", "t", "", "backend technology (default: first configured)")
	flags.IntVar(&opts.start, "start", 0, "first row (inclusive)")
	flags.IntVar(&opts.end, "end", 0, "last row (exclusive, default start + block size)")
	flags.StringArrayVar(&opts.sorts, "sort", nil, "sort column as key[:asc|desc], repeatable, in priority order")
	flags.StringArrayVar(&opts.filters, "filter", nil, "column filter as key=<native filter JSON>, repeatable")
	flags.StringVar(&opts.filterModel, "filter-model", "", "file holding a whole native filter model as JSON")
	flags.StringVarP(&opts.text, "text", "q", "", "full-text query")
	flags.StringVarP(&opts.output, "output", "o", "table", "output format (table, json)")

	return cmd
}

func (o *rowsOptions) request() (grid.RowsRequest, error) {
	req := grid.RowsRequest{StartRow: o.start, EndRow: o.end, FilterModel: grid.FilterModel{}}

	if o.filterModel != "" {
		data, err := os.ReadFile(o.filterModel)
		if err != nil {
			return req, fmt.Errorf("read filter model: %w", err)
		}
		if err := json.Unmarshal(data, &req.FilterModel); err != nil {
			return req, fmt.Errorf("parse filter model %s: %w", o.filterModel, err)
		}
	}
	for _, raw := range o.filters {
		key, f, err := parseFilterFlag(raw)
		if err != nil {
			return req, err
		}
		req.FilterModel[key] = f
	}
	for _, raw := range o.sorts {
		item, err := parseSortFlag(raw)
		if err != nil {
			return req, err
		}
		req.SortModel = append(req.SortModel, item)
	}
	return req, nil
}

// parseSortFlag reads "key" or "key:direction".
func parseSortFlag(raw string) (grid.SortModelItem, error) {
	key, dir, found := strings.Cut(raw, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return grid.SortModelItem{}, fmt.Errorf("sort %q: empty column", raw)
	}
	if !found {
		return grid.SortModelItem{ColID: key, Sort: string(search.Asc)}, nil
	}
	d, err := search.ParseDirection(strings.TrimSpace(dir))
	if err != nil {
		return grid.SortModelItem{}, fmt.Errorf("sort %q: %w", raw, err)
	}
	return grid.SortModelItem{ColID: key, Sort: string(d)}, nil
}

// parseFilterFlag reads "key=<json>".
func parseFilterFlag(raw string) (string, grid.NativeFilter, error) {
	key, body, found := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", nil, fmt.Errorf("filter %q: expected key=<json>", raw)
	}
	f, err := grid.ParseFilter(json.RawMessage(body))
	if err != nil {
		return "", nil, fmt.Errorf("filter %s: %w", key, err)
	}
	return key, f, nil
}

func renderRows(cmd *cobra.Command, block datasource.Block[search.OperatingSystem]) error {
	def := metadata.Inspect(search.OperatingSystem{}, "operating-systems")

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader(def.Labels())
	table.SetAutoFormatHeaders(false)
	for _, r := range block.Rows {
		cells, err := def.Values(r)
		if err != nil {
			return err
		}
		table.Append(cells)
	}
	table.Render()

	last := "unknown"
	if block.LastRow != grid.UnknownLastRow {
		last = strconv.Itoa(block.LastRow)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows, last row: %s, response time: %dms\n",
		len(block.Rows), last, block.Elapsed.Milliseconds())
	return nil
}
