package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/graphcache/backend"
	"github.com/unkn0wn-root/graphcache/federation"
)

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered cache backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range backend.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newPropsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "props",
		Short: "Print the resolved properties in load order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, k := range a.props.Keys() {
				v, _ := a.props.Get(k)
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
			}
			return nil
		},
	}
}

func newGraphsCmd(a *app) *cobra.Command {
	var user string
	var auths []string
	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "List federated graph IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			gc, err := federation.NewGraphCache(federation.Options{Services: l, Codec: a.codec})
			if err != nil {
				return err
			}
			var ids []string
			if user == "" && len(auths) == 0 {
				ids, err = gc.GetGraphIDs(cmd.Context())
			} else {
				gs, gerr := gc.Graphs(cmd.Context(), user, auths...)
				for _, g := range gs {
					ids = append(ids, g.ID)
				}
				err = gerr
			}
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Only graphs visible to this user")
	cmd.Flags().StringSliceVar(&auths, "auths", nil, "Only graphs visible with these auths")
	return cmd
}
