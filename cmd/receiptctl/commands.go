// cmd/receiptctl/commands.go
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"receipt-service/internal/payload"
	"receipt-service/internal/service"
)

func newPrintCmd(opts *rootOptions) *cobra.Command {
	var (
		payloadFile string
		overrides   payload.Overrides
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print a receipt from a JSON payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			req, err := readReceipt(cmd, payloadFile)
			if err != nil {
				return err
			}
			applyOverrides(req, overrides, opts.queue)

			result, err := rt.printer.PrintReceipt(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "printed job %s on %s: total %s (%d bytes)\n",
				result.JobID, result.QueueID, result.Total.StringFixed(2), result.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&payloadFile, "payload", "p", "", "receipt payload file, - for stdin")
	cmd.Flags().StringVar(&overrides.HeaderTitle, "header-title", "", "override layout.header_title")
	cmd.Flags().StringVar(&overrides.HeaderDescription, "header-description", "", "override layout.header_description")
	cmd.Flags().StringVar(&overrides.ReceiptTitle, "receipt-title", "", "override layout.receipt_title")
	cmd.Flags().StringVar(&overrides.FooterLabel, "footer-label", "", "override layout.footer_label")
	cmd.Flags().StringVar(&overrides.HeaderImage, "header-image", "", "header image name inside layout.asset_dir")
	cmd.Flags().StringVar(&overrides.FooterImage, "footer-image", "", "footer image name inside layout.asset_dir")
	cmd.MarkFlagRequired("payload")
	return cmd
}

func newDrawerCmd(opts *rootOptions) *cobra.Command {
	var pin int

	cmd := &cobra.Command{
		Use:   "drawer",
		Short: "Open the cash drawer",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			req := &service.DrawerRequest{Queue: opts.queue}
			if cmd.Flags().Changed("pin") {
				req.Pin = &pin
			}

			result, err := rt.printer.OpenDrawer(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "drawer opened on %s\n", result.QueueID)
			return nil
		},
	}

	cmd.Flags().IntVar(&pin, "pin", 2, "drawer connector pin, 2 or 5")
	return cmd
}

func newTestPageCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test-page",
		Short: "Print the printer settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			result, err := rt.printer.PrintTestPage(cmd.Context(), &service.TestPageRequest{Queue: opts.queue})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "test page printed on %s (%d bytes)\n", result.QueueID, result.Bytes)
			return nil
		},
	}
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var payloadFile, out string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a receipt to PNG without printing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			req, err := readReceipt(cmd, payloadFile)
			if err != nil {
				return err
			}

			png, err := rt.printer.PreviewReceipt(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write preview: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "preview written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&payloadFile, "payload", "p", "", "receipt payload file, - for stdin")
	cmd.Flags().StringVarP(&out, "out", "o", "receipt.png", "output PNG file")
	cmd.MarkFlagRequired("payload")
	return cmd
}

func newQueuesCmd(opts *rootOptions) *cobra.Command {
	var discover bool

	cmd := &cobra.Command{
		Use:   "queues",
		Short: "List configured printer queues",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			if discover {
				fmt.Fprintln(w, "TYPE\tADDRESS\tVENDOR\tMODEL")
				for _, port := range rt.printer.DiscoverPorts() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", port.Type, port.Address, port.Vendor, port.Model)
				}
				return nil
			}

			fmt.Fprintln(w, "QUEUE\tTYPE\tDEFAULT")
			for _, q := range rt.printer.ListQueues() {
				def := ""
				if q.ID == rt.config.Printer.QueueID {
					def = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", q.ID, q.Type, def)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&discover, "discover", false, "list serial ports and USB printers attached to this host instead")
	return cmd
}

func readReceipt(cmd *cobra.Command, file string) (*payload.Receipt, error) {
	var (
		body []byte
		err  error
	)
	if file == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return payload.Parse(body)
}

// applyOverrides layers command line values over the payload's own
func applyOverrides(req *payload.Receipt, o payload.Overrides, queue string) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&req.Overrides.HeaderTitle, o.HeaderTitle)
	set(&req.Overrides.HeaderDescription, o.HeaderDescription)
	set(&req.Overrides.ReceiptTitle, o.ReceiptTitle)
	set(&req.Overrides.FooterLabel, o.FooterLabel)
	set(&req.Overrides.HeaderImage, o.HeaderImage)
	set(&req.Overrides.FooterImage, o.FooterImage)
	set(&req.Queue, queue)
}
