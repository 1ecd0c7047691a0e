package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicectl/internal/adapters/render/listview"
	"github.com/invoicedesk/invoicectl/internal/application"
	"github.com/invoicedesk/invoicectl/internal/domain"
)

func newChatCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the billing assistant",
	}

	cmd.AddCommand(
		newChatNewCmd(app),
		newChatListCmd(app),
		newChatOpenCmd(app),
		newChatSendCmd(app),
		newChatDeleteCmd(app),
		newChatRenameCmd(app),
		newChatExportCmd(app),
	)

	return cmd
}

func newChatNewCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a fresh conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := app.chats.New(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Started %s (%s)\n", summary.Title, summary.ChatID)
			return err
		},
	}
}

func newChatListCmd(app *app) *cobra.Command {
	var search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chats, err := app.chats.List(cmd.Context())
			if err != nil {
				return err
			}

			view := application.FilterChats(chats, application.NewListQuery().WithSearch(search))
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.PageItems())
			}

			current, err := app.chats.Current(cmd.Context())
			if err != nil && !errors.Is(err, domain.ErrNoActiveChat) {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), listview.Chats(view, current))
			return err
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by title")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")

	return cmd
}

func newChatOpenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <chat-id>",
		Short: "Open a conversation and print its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := app.chats.Open(cmd.Context(), domain.ChatID(args[0]))
			if err != nil {
				return err
			}
			printTranscript(cmd, messages)
			return nil
		},
	}
}

func printTranscript(cmd *cobra.Command, messages []domain.ChatMessage) {
	out := cmd.OutOrStdout()
	for _, msg := range messages {
		fmt.Fprintf(out, "[%s] %s\n", msg.Role, msg.Content)
	}
}

func newChatSendCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>...",
		Short: "Send a message in the active conversation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")

			var turn domain.AssistantTurn
			err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Waiting for the assistant...", func(ctx context.Context) error {
				var sendErr error
				turn, sendErr = app.chats.Send(ctx, message)
				return sendErr
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, turn.Response)
			if turn.CartCount > 0 {
				fmt.Fprintf(out, "(cart: %d items)\n", turn.CartCount)
			}

			// The assistant can ask the client to finish the flow by
			// generating the invoice from the accumulated cart.
			if turn.Action == domain.ActionGenerateInvoice {
				invoice, err := app.invoices.GenerateFromCart(cmd.Context())
				if err != nil {
					return fmt.Errorf("generate invoice: %w", err)
				}
				fmt.Fprintf(out, "Invoice %s generated, total %s. Download with 'invoicectl invoice download %s'.\n",
					invoice.Number, domain.FormatAmount(invoice.GrandTotal), invoice.PDFPath)
			}
			return nil
		},
	}
}

func newChatDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.chats.Delete(cmd.Context(), domain.ChatID(args[0])); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}

func newChatRenameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <chat-id> <title>",
		Short: "Rename a conversation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			if err := app.chats.Rename(cmd.Context(), domain.ChatID(args[0]), title); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", args[0], title)
			return err
		},
	}
}

func newChatExportCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <chat-id>",
		Short: "Export a conversation transcript as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ChatID(args[0])
			messages, err := app.chats.Open(cmd.Context(), id)
			if err != nil {
				return err
			}

			export := struct {
				ChatID   domain.ChatID        `json:"chat_id"`
				Messages []domain.ChatMessage `json:"messages"`
			}{ChatID: id, Messages: messages}

			if output == "" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(export)
			}

			data, err := json.MarshalIndent(export, "", "  ")
			if err != nil {
				return fmt.Errorf("encode transcript: %w", err)
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o600); err != nil {
				return fmt.Errorf("write transcript: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", id, output)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")

	return cmd
}
