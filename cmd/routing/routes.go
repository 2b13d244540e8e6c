package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lopn/routing"
	"github.com/lopn/routing/logging"
)

type routeInfo struct {
	Methods []string `json:"methods"`
	URI     string   `json:"uri"`
	Domain  string   `json:"domain,omitempty"`
	Name    string   `json:"name,omitempty"`
	Action  string   `json:"action"`
	Before  []string `json:"before,omitempty"`
	After   []string `json:"after,omitempty"`
}

func routesCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the registered routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			r, cleanup, err := buildRouter(cmd.Context(), cfg, logging.Discard(), nil, opts.dsn)
			if err != nil {
				return err
			}
			defer cleanup()

			infos := describe(r.Routes())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tURI\tNAME\tACTION\tBEFORE")
			for _, info := range infos {
				uri := info.URI
				if info.Domain != "" {
					uri = info.Domain + " " + uri
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					strings.Join(info.Methods, "|"), uri, info.Name, info.Action, strings.Join(info.Before, ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print routes as JSON")
	return cmd
}

func describe(routes []*routing.Route) []routeInfo {
	infos := make([]routeInfo, 0, len(routes))
	for _, route := range routes {
		infos = append(infos, routeInfo{
			Methods: route.Methods(),
			URI:     route.URI(),
			Domain:  route.Domain(),
			Name:    route.Name(),
			Action:  route.Action(),
			Before:  refs(route.BeforeFilters()),
			After:   refs(route.AfterFilters()),
		})
	}
	return infos
}

func refs(filters []routing.FilterRef) []string {
	var out []string
	for _, f := range filters {
		out = append(out, f.String())
	}
	return out
}
