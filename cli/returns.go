package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/util"
)

func init() {
	returnCmd := &cobra.Command{
		Use:   "return",
		Short: "Handle customer returns",
	}

	// submit
	var id, pharmacyID, productID, reason, date string
	var quantity int
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Register a pending return",
		RunE: func(cmd *cobra.Command, args []string) error {
			returnID := id
			if returnID == "" {
				returnID = util.GenerateID("RET")
			}
			on, err := parseDate(date)
			if err != nil {
				return err
			}
			if on.IsZero() {
				on = domain.Today()
			}
			product, err := manager.Product(domain.ProductID(productID))
			if err != nil {
				return err
			}
			r, err := domain.NewReturn(returnID, on, product, pharmacyID, quantity, reason)
			if err != nil {
				return err
			}
			start := time.Now()
			if err := manager.SubmitReturn(r); err != nil {
				slog.Error("submit return failed", "return_id", returnID, "error", err)
				return err
			}
			logMutation("return submitted", start, "return_id", returnID, "pharmacy_id", pharmacyID, "product_id", productID)
			return printJSON(r.Record())
		},
	}
	submitCmd.Flags().StringVar(&id, "id", "", "return id (generated when empty)")
	submitCmd.Flags().StringVar(&pharmacyID, "pharmacy", "", "pharmacy id")
	submitCmd.Flags().StringVar(&productID, "product", "", "product id")
	submitCmd.Flags().IntVar(&quantity, "quantity", 0, "quantity")
	submitCmd.Flags().StringVar(&reason, "reason", "", "reason")
	submitCmd.Flags().StringVar(&date, "date", "", "return date (YYYY-MM-DD, default today)")
	returnCmd.AddCommand(submitCmd)

	// approve
	returnCmd.AddCommand(&cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending return and credit the stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			r, err := manager.ApproveReturn(args[0])
			if err != nil {
				slog.Error("approve return failed", "return_id", args[0], "error", err)
				return err
			}
			logMutation("return approved", start, "return_id", r.ID(), "quantity", r.Quantity())
			return printJSON(r.Record())
		},
	})

	// reject
	var rejectReason string
	rejectCmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			r, err := manager.RejectReturn(args[0], rejectReason)
			if err != nil {
				slog.Error("reject return failed", "return_id", args[0], "error", err)
				return err
			}
			logMutation("return rejected", start, "return_id", r.ID())
			return printJSON(r.Record())
		},
	}
	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "rejection reason")
	returnCmd.AddCommand(rejectCmd)

	// list
	var lStatus, lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status domain.ReturnStatus
			if lStatus != "" {
				st, err := domain.ParseReturnStatus(lStatus)
				if err != nil {
					return err
				}
				status = st
			}
			out := manager.Returns(status)
			if lOutput == "json" {
				recs := make([]domain.ReturnRecord, 0, len(out))
				for _, r := range out {
					recs = append(recs, r.Record())
				}
				return printJSON(recs)
			}
			rows := make([][]string, 0, len(out))
			for _, r := range out {
				rows = append(rows, []string{
					r.ID(), r.Date().String(), r.PharmacyID(), string(r.ProductID()),
					strconv.Itoa(r.Quantity()), string(r.Status()), r.Reason(),
				})
			}
			fmt.Print(renderTable([]string{"ID", "DATE", "PHARMACY", "PRODUCT", "QTY", "STATUS", "REASON"}, rows))
			return nil
		},
	}
	listCmd.Flags().StringVar(&lStatus, "status", "", "pending|approved|rejected")
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	returnCmd.AddCommand(listCmd)

	// get
	returnCmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get return by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := manager.Return(args[0])
			if err != nil {
				return err
			}
			return printJSON(r.Record())
		},
	})

	rootCmd.AddCommand(returnCmd)
}
