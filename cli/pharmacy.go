package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/darfe-e/greenFarmacy/domain"
)

func init() {
	pharmacyCmd := &cobra.Command{
		Use:   "pharmacy",
		Short: "Manage pharmacies",
	}

	// add
	var name, address, phone, rent string
	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Add a pharmacy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rent == "" {
				return errors.New("--rent required")
			}
			rentCost, err := parseDecimal("rent_cost", rent)
			if err != nil {
				return err
			}
			p, err := domain.NewPharmacy(args[0], name, address, phone, rentCost)
			if err != nil {
				return err
			}
			start := time.Now()
			if err := manager.AddPharmacy(p); err != nil {
				slog.Error("add pharmacy failed", "pharmacy_id", p.ID(), "error", err)
				return err
			}
			logMutation("pharmacy added", start, "pharmacy_id", p.ID())
			return printJSON(p.Info())
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "name")
	addCmd.Flags().StringVar(&address, "address", "", "address")
	addCmd.Flags().StringVar(&phone, "phone", "", "phone")
	addCmd.Flags().StringVar(&rent, "rent", "", "monthly rent cost")
	pharmacyCmd.AddCommand(addCmd)

	// remove
	var force bool
	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a pharmacy together with its stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirm(fmt.Sprintf("Remove pharmacy %s and its stock?", args[0])) {
				fmt.Println("aborted")
				return nil
			}
			start := time.Now()
			if err := manager.RemovePharmacy(args[0]); err != nil {
				return err
			}
			logMutation("pharmacy removed", start, "pharmacy_id", args[0])
			fmt.Println("removed")
			return nil
		},
	}
	removeCmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	pharmacyCmd.AddCommand(removeCmd)

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pharmacies",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := manager.Pharmacies()
			if lOutput == "json" {
				return printJSON(out)
			}
			rows := make([][]string, 0, len(out))
			for _, p := range out {
				rows = append(rows, []string{
					p.ID, p.Name, p.Address, p.Phone, p.RentCost.StringFixed(2), strconv.Itoa(p.Products),
				})
			}
			fmt.Print(renderTable([]string{"ID", "NAME", "ADDRESS", "PHONE", "RENT", "PRODUCTS"}, rows))
			return nil
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	pharmacyCmd.AddCommand(listCmd)

	// show
	var sOutput string
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a pharmacy and its stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := manager.Pharmacy(args[0])
			if err != nil {
				return err
			}
			lines, err := manager.Stock(args[0])
			if err != nil {
				return err
			}
			if sOutput == "json" {
				return printJSON(struct {
					domain.PharmacyInfo
					Stock []domain.StockLine `json:"stock"`
				}{info, lines})
			}
			fmt.Println(headerStyle.Render(info.Name) + dimStyle.Render(" ("+info.ID+")"))
			if info.Address != "" {
				fmt.Println(info.Address)
			}
			rows := make([][]string, 0, len(lines))
			for _, l := range lines {
				rows = append(rows, []string{string(l.ProductID), strconv.Itoa(l.Quantity)})
			}
			fmt.Print(renderTable([]string{"PRODUCT", "QUANTITY"}, rows))
			return nil
		},
	}
	showCmd.Flags().StringVar(&sOutput, "output", "", "output format")
	pharmacyCmd.AddCommand(showCmd)

	rootCmd.AddCommand(pharmacyCmd)
}
