package cli

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/ledger"
)

func init() {
	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and adjust pharmacy stock",
	}

	// add
	stockCmd.AddCommand(&cobra.Command{
		Use:   "add <pharmacy-id> <product-id> <quantity>",
		Short: "Put units into a pharmacy's storage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			start := time.Now()
			if err := manager.AddProduct(args[0], domain.ProductID(args[1]), qty); err != nil {
				slog.Error("stock add failed", "pharmacy_id", args[0], "product_id", args[1], "error", err)
				return err
			}
			logMutation("stock added", start, "pharmacy_id", args[0], "product_id", args[1], "quantity", qty)
			return printQuantity(args[0], domain.ProductID(args[1]))
		},
	})

	// remove
	stockCmd.AddCommand(&cobra.Command{
		Use:   "remove <pharmacy-id> <product-id> <quantity>",
		Short: "Take units out of a pharmacy's storage",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			start := time.Now()
			if err := manager.RemoveProduct(args[0], domain.ProductID(args[1]), qty); err != nil {
				slog.Error("stock remove failed", "pharmacy_id", args[0], "product_id", args[1], "error", err)
				return err
			}
			logMutation("stock removed", start, "pharmacy_id", args[0], "product_id", args[1], "quantity", qty)
			return printQuantity(args[0], domain.ProductID(args[1]))
		},
	})

	// total
	stockCmd.AddCommand(&cobra.Command{
		Use:   "total <product-id>",
		Short: "Total quantity of a product across all pharmacies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(manager.TotalQuantity(domain.ProductID(args[0])))
			return nil
		},
	})

	// availability
	var aOutput string
	availabilityCmd := &cobra.Command{
		Use:   "availability <product-id>",
		Short: "Quantity of a product per pharmacy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			avail := manager.Availability(domain.ProductID(args[0]))
			if aOutput == "json" {
				return printJSON(avail)
			}
			ids := make([]string, 0, len(avail))
			for id := range avail {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{id, strconv.Itoa(avail[id])})
			}
			fmt.Print(renderTable([]string{"PHARMACY", "QUANTITY"}, rows))
			return nil
		},
	}
	availabilityCmd.Flags().StringVar(&aOutput, "output", "", "output format")
	stockCmd.AddCommand(availabilityCmd)

	// find
	var fOutput string
	findCmd := &cobra.Command{
		Use:   "find <name-or-id>",
		Short: "Pharmacies stocking a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := manager.FindProduct(args[0])
			if err != nil {
				return err
			}
			if fOutput == "json" {
				return printJSON(out)
			}
			rows := make([][]string, 0, len(out))
			for _, p := range out {
				rows = append(rows, []string{p.ID, p.Name, p.Address, p.Phone})
			}
			fmt.Print(renderTable([]string{"ID", "NAME", "ADDRESS", "PHONE"}, rows))
			return nil
		},
	}
	findCmd.Flags().StringVar(&fOutput, "output", "", "output format")
	stockCmd.AddCommand(findCmd)

	rootCmd.AddCommand(stockCmd)

	// supply
	var source string
	supplyCmd := &cobra.Command{
		Use:   "supply <pharmacy-id> <product-id> <quantity>",
		Short: "Receive a delivery into a pharmacy",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			start := time.Now()
			mv, err := manager.Supply(args[0], domain.ProductID(args[1]), qty, source)
			if err != nil {
				slog.Error("supply failed", "pharmacy_id", args[0], "product_id", args[1], "error", err)
				return err
			}
			logMutation("stock supplied", start, "pharmacy_id", args[0], "product_id", args[1], "quantity", qty)
			return printJSON(mv)
		},
	}
	supplyCmd.Flags().StringVar(&source, "source", "", "supplier")
	rootCmd.AddCommand(supplyCmd)

	// writeoff
	var reason string
	writeOffCmd := &cobra.Command{
		Use:   "writeoff <pharmacy-id> <product-id> <quantity>",
		Short: "Write off damaged or expired units",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQuantity(args[2])
			if err != nil {
				return err
			}
			start := time.Now()
			mv, err := manager.WriteOff(args[0], domain.ProductID(args[1]), qty, reason)
			if err != nil {
				slog.Error("write-off failed", "pharmacy_id", args[0], "product_id", args[1], "error", err)
				return err
			}
			logMutation("stock written off", start, "pharmacy_id", args[0], "product_id", args[1], "quantity", qty)
			return printJSON(mv)
		},
	}
	writeOffCmd.Flags().StringVar(&reason, "reason", "", "reason")
	rootCmd.AddCommand(writeOffCmd)

	// movements
	var mPharmacy, mProduct, mKind, mOutput string
	movementsCmd := &cobra.Command{
		Use:   "movements",
		Short: "Show the stock movement journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := manager.Movements(ledger.MovementFilter{
				PharmacyID: mPharmacy,
				ProductID:  domain.ProductID(mProduct),
				Kind:       domain.MovementKind(mKind),
			})
			if mOutput == "json" {
				return printJSON(out)
			}
			rows := make([][]string, 0, len(out))
			for _, mv := range out {
				rows = append(rows, []string{
					mv.Date.String(), string(mv.Kind), mv.PharmacyID, string(mv.ProductID),
					fmt.Sprintf("%+d", mv.Change), strconv.Itoa(mv.After), mv.Reference, mv.Note,
				})
			}
			fmt.Print(renderTable([]string{"DATE", "KIND", "PHARMACY", "PRODUCT", "CHANGE", "AFTER", "REF", "NOTE"}, rows))
			return nil
		},
	}
	movementsCmd.Flags().StringVar(&mPharmacy, "pharmacy", "", "pharmacy id")
	movementsCmd.Flags().StringVar(&mProduct, "product", "", "product id")
	movementsCmd.Flags().StringVar(&mKind, "kind", "", "supply|write-off|return|adjustment")
	movementsCmd.Flags().StringVar(&mOutput, "output", "", "output format")
	rootCmd.AddCommand(movementsCmd)
}

func printQuantity(pharmacyID string, productID domain.ProductID) error {
	q, err := manager.QuantityOf(pharmacyID, productID)
	if err != nil {
		return err
	}
	return printJSON(domain.StockLine{ProductID: productID, Quantity: q})
}
