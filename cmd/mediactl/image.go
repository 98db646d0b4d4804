package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourorg/eztech-media/internal/images"
)

type resultOutput struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func printResult(r images.Result) error {
	return writeJSON(resultOutput{Code: int(r.Code), Message: r.Message})
}

func newImageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Work with image blobs",
	}
	cmd.AddCommand(
		newImageGetCmd(a),
		newImagePutCmd(a),
		newImageRmCmd(a),
		newImageExistsCmd(a),
		newImageCountCmd(a),
		newImageWipeCmd(a),
	)
	return cmd
}

func newImageGetCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "get <filename>",
		Short: "Download an image (the placeholder is written when it cannot be fetched)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				res, err := g.Lookup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				defer res.Body.Close()

				var w io.Writer = os.Stdout
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				if _, err := io.Copy(w, res.Body); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "source: %s\n", res.Source)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newImagePutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <filename> <path>",
		Short: "Upload a local file unless the name is already taken",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				return printResult(g.Store(cmd.Context(), args[0], f))
			})
		},
	}
}

func newImageRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <filename>",
		Short: "Delete an image if it exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				return printResult(g.Remove(cmd.Context(), args[0]))
			})
		},
	}
}

func newImageExistsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <filename>",
		Short: "Report whether an image exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				return writeJSON(map[string]bool{"exists": g.Exists(cmd.Context(), args[0])})
			})
		},
	}
}

func newImageCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count images in the container (lists every blob)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				return writeJSON(map[string]int{"count": g.Count(cmd.Context())})
			})
		},
	}
}

func newImageWipeCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every image in the container (development only, needs STORAGE_ALLOW_WIPE=true)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe %q without --yes", a.cfg.Storage.Container)
			}
			return a.withGateway(cmd.Context(), func(g *images.Gateway) error {
				ok, err := g.Wipe(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(map[string]bool{"wiped": ok})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}
