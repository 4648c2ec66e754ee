package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/darfe-e/greenFarmacy/domain"
)

func init() {
	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	// add
	var name, form, price, expires, country, substance string
	var analogues []string
	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register a product in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("name required")
			}
			p := &domain.MedicalProduct{
				ID:                  domain.ProductID(args[0]),
				Name:                name,
				ManufacturerCountry: country,
				ActiveSubstance:     substance,
			}
			var err error
			if p.Form, err = domain.ParseProductForm(form); err != nil {
				return err
			}
			if p.Price, err = parseDecimal("price", price); err != nil {
				return err
			}
			if p.ExpirationDate, err = parseDate(expires); err != nil {
				return err
			}
			for _, a := range analogues {
				if err := p.AddAnalogue(domain.ProductID(a)); err != nil {
					return err
				}
			}

			start := time.Now()
			if err := manager.RegisterProduct(p); err != nil {
				slog.Error("register product failed", "product_id", p.ID, "error", err)
				return err
			}
			logMutation("product registered", start, "product_id", p.ID)
			return printJSON(p.Record())
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "name")
	addCmd.Flags().StringVar(&form, "form", "", "form: tablet|syrup|ointment|other")
	addCmd.Flags().StringVar(&price, "price", "0", "price")
	addCmd.Flags().StringVar(&expires, "expires", "", "expiration date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&country, "country", "", "manufacturer country")
	addCmd.Flags().StringVar(&substance, "substance", "", "active substance")
	addCmd.Flags().StringSliceVar(&analogues, "analogue", nil, "analogue product id (repeatable)")
	productCmd.AddCommand(addCmd)

	// update
	var uName, uForm, uPrice, uExpires, uCountry, uSubstance string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ProductID(args[0])

			p, err := manager.Product(id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = uName
			}
			if cmd.Flags().Changed("form") {
				if p.Form, err = domain.ParseProductForm(uForm); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("price") {
				if p.Price, err = parseDecimal("price", uPrice); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("expires") {
				if p.ExpirationDate, err = parseDate(uExpires); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("country") {
				p.ManufacturerCountry = uCountry
			}
			if cmd.Flags().Changed("substance") {
				p.ActiveSubstance = uSubstance
			}

			start := time.Now()
			if err := manager.UpdateProduct(p); err != nil {
				slog.Error("update failed", "product_id", id, "error", err)
				return err
			}
			logMutation("product updated", start, "product_id", id)
			return printJSON(p.Record())
		},
	}
	updateCmd.Flags().StringVar(&uName, "name", "", "name")
	updateCmd.Flags().StringVar(&uForm, "form", "", "form")
	updateCmd.Flags().StringVar(&uPrice, "price", "", "price")
	updateCmd.Flags().StringVar(&uExpires, "expires", "", "expiration date (YYYY-MM-DD, empty clears it)")
	updateCmd.Flags().StringVar(&uCountry, "country", "", "manufacturer country")
	updateCmd.Flags().StringVar(&uSubstance, "substance", "", "active substance")
	productCmd.AddCommand(updateCmd)

	// remove
	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := manager.UnregisterProduct(domain.ProductID(args[0])); err != nil {
				return err
			}
			logMutation("product unregistered", start, "product_id", args[0])
			fmt.Println("removed")
			return nil
		},
	}
	productCmd.AddCommand(removeCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Get product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := manager.Product(domain.ProductID(args[0]))
			if err != nil {
				return err
			}
			return printJSON(p.Record())
		},
	}
	productCmd.AddCommand(getCmd)

	// list
	var lOutput string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProducts(manager.Products(), lOutput)
		},
	}
	listCmd.Flags().StringVar(&lOutput, "output", "", "output format")
	productCmd.AddCommand(listCmd)

	// search
	var sOutput string
	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search by id, name, country or active substance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := manager.SearchProducts(args[0])
			if err != nil {
				return err
			}
			return printProducts(out, sOutput)
		},
	}
	searchCmd.Flags().StringVar(&sOutput, "output", "", "output format")
	productCmd.AddCommand(searchCmd)

	// analogue add|remove
	analogueCmd := &cobra.Command{
		Use:   "analogue",
		Short: "Edit the analogues of a product",
	}
	analogueCmd.AddCommand(&cobra.Command{
		Use:   "add <id> <analogue-id>",
		Short: "Record an analogue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := manager.AddAnalogue(domain.ProductID(args[0]), domain.ProductID(args[1])); err != nil {
				return err
			}
			slog.Info("analogue added", "product_id", args[0], "analogue_id", args[1])
			return nil
		},
	})
	analogueCmd.AddCommand(&cobra.Command{
		Use:   "remove <id> <analogue-id>",
		Short: "Drop an analogue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := manager.RemoveAnalogue(domain.ProductID(args[0]), domain.ProductID(args[1])); err != nil {
				return err
			}
			slog.Info("analogue removed", "product_id", args[0], "analogue_id", args[1])
			return nil
		},
	})
	productCmd.AddCommand(analogueCmd)

	// analogues
	var aPharmacy, aOutput string
	analoguesCmd := &cobra.Command{
		Use:   "analogues <id>",
		Short: "List analogues, optionally only those stocked at --pharmacy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ProductID(args[0])
			var (
				out []*domain.MedicalProduct
				err error
			)
			if aPharmacy != "" {
				out, err = manager.AvailableAnalogues(aPharmacy, id)
			} else {
				out, err = manager.Analogues(id)
			}
			if err != nil {
				return err
			}
			return printProducts(out, aOutput)
		},
	}
	analoguesCmd.Flags().StringVar(&aPharmacy, "pharmacy", "", "pharmacy id")
	analoguesCmd.Flags().StringVar(&aOutput, "output", "", "output format")
	productCmd.AddCommand(analoguesCmd)

	rootCmd.AddCommand(productCmd)
}

func printProducts(list []*domain.MedicalProduct, output string) error {
	if output == "json" {
		recs := make([]domain.ProductRecord, 0, len(list))
		for _, p := range list {
			recs = append(recs, p.Record())
		}
		return printJSON(recs)
	}
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		expires := p.ExpirationDate.String()
		if p.ExpirationDate.IsExpired() {
			expires = warnStyle.Render(expires + " expired")
		}
		rows = append(rows, []string{
			string(p.ID), p.Name, string(p.Form), p.Price.StringFixed(2), expires, p.ActiveSubstance,
		})
	}
	fmt.Print(renderTable([]string{"ID", "NAME", "FORM", "PRICE", "EXPIRES", "SUBSTANCE"}, rows))
	return nil
}
