package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ifscloud/internal/config"
	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/viz"
)

func newSaveCmd(a *app) *cobra.Command {
	var (
		in       inputFlags
		snapshot bool
	)
	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "save a transform set to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, label, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			s, err := a.store()
			if err != nil {
				return err
			}
			var cloud *pointcloud.Cloud
			if snapshot {
				if cloud, err = generate(cmd.Context(), doc, label, false); err != nil {
					return err
				}
			}
			e, err := s.Save(args[0], doc, cloud)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("saved", "name", e.Name, "id", e.ID, "points", e.Points)
			fmt.Fprintln(cmd.OutOrStdout(), viz.Success.Render("✓")+" saved "+e.Name+" "+viz.Subtle.Render(e.ID))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "also store the generated points")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved transform sets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			entries, err := s.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), viz.Subtle.Render("no saved fractals in "+s.Dir()))
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSAVED\tTRANSFORMS\tITERATIONS\tPOINTS")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", shortID(e.ID), e.Name, e.Timestamp.Local().Format("2006-01-02 15:04"), e.Transforms, e.Iterations, e.Points)
			}
			return w.Flush()
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	var (
		dest string
		as   string
	)
	cmd := &cobra.Command{
		Use:   "load [ref]",
		Short: "print or write a saved transform set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			e, doc, err := s.Load(args[0])
			if err != nil {
				return err
			}
			if dest != "" {
				if err := config.Save(dest, doc); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), viz.Success.Render("✓")+" wrote "+e.Name+" to "+dest)
				return nil
			}
			data, err := config.Marshal(doc, config.Codec(as))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&dest, "output", "o", "", "write the document here (codec from extension)")
	cmd.Flags().StringVar(&as, "as", string(config.YAML), "stdout encoding: json, yaml or toml")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [ref]",
		Aliases: []string{"rm"},
		Short:   "delete a saved transform set",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store()
			if err != nil {
				return err
			}
			e, err := s.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.Delete(e.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), viz.Success.Render("✓")+" deleted "+e.Name)
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
