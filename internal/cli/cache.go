package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/graphcache"
	"github.com/unkn0wn-root/graphcache/codec"
)

// cache opens a string-valued view of the named cache.
func (a *app) cache(ctx context.Context, name string) (*graphcache.TupleCache[string, string], error) {
	l, err := a.service(ctx)
	if err != nil {
		return nil, err
	}
	return graphcache.NewTupleCache(graphcache.TupleOptions[string, string]{
		Name:     name,
		Services: l,
		Codec:    codec.String{},
	})
}

func newPutCmd(a *app) *cobra.Command {
	var safe bool
	cmd := &cobra.Command{
		Use:   "put CACHE KEY VALUE",
		Short: "Store a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if safe {
				err = c.PutSafe(cmd.Context(), args[1], args[2])
				if errors.Is(err, graphcache.ErrConflict) {
					return fmt.Errorf("%s/%s already exists", args[0], args[1])
				}
				return err
			}
			return c.Put(cmd.Context(), args[1], args[2])
		},
	}
	cmd.Flags().BoolVar(&safe, "safe", false, "Fail instead of overwriting an existing entry")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get CACHE KEY",
		Short: "Print a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			v, ok, err := c.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s/%s not found", args[0], args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys CACHE",
		Short: "List keys, sorted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			keys, err := c.Keys(cmd.Context())
			if err != nil {
				return err
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newValuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "values CACHE",
		Short: "List values, sorted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			vals, err := c.Values(cmd.Context())
			if err != nil {
				return err
			}
			slices.Sort(vals)
			for _, v := range vals {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove CACHE KEY",
		Aliases: []string{"rm"},
		Short:   "Remove a key; removing a missing key succeeds",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.Remove(cmd.Context(), args[1])
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear CACHE",
		Short: "Remove every entry of a cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.Clear(cmd.Context())
		},
	}
}

func newSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "size CACHE",
		Short: "Print the number of entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.cache(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			n, err := c.Size(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
