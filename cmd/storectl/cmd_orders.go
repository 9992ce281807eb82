package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/luxeshop/storefront/internal/checkout"
	"github.com/luxeshop/storefront/internal/domain"
)

var orderStatusFilter string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and advance orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	RunE:  runOrdersList,
}

var ordersFindCmd = &cobra.Command{
	Use:   "find <order-number>",
	Short: "Show one order as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersFind,
}

var ordersEventsCmd = &cobra.Command{
	Use:   "events <order-number>",
	Short: "Show the audit trail of an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersEvents,
}

func init() {
	ordersListCmd.Flags().StringVar(&orderStatusFilter, "status", "", "Only orders with this status (pending, processing, shipped, delivered)")
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	orders, err := checkout.NewOrders(e.content, nil, e.logger).FetchOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}

	status := domain.OrderStatus(strings.ToLower(orderStatusFilter))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tCUSTOMER\tITEMS\tTOTAL\tCREATED")
	count := 0
	for _, o := range orders {
		if status != "" && o.Status != status {
			continue
		}
		count++
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
			o.OrderNumber, o.Status, o.UserSnapshot.Name, len(o.Items), o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d order(s)\n", count)
	return nil
}

func runOrdersFind(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	order, err := e.content.OrderByNumber(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order %s not found", args[0])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(order)
}

func runOrdersEvents(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	events, err := e.repos.OrderEvent.GetByOrderNumber(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	if len(events) == 0 {
		fmt.Printf("No events recorded for %s\n", args[0])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEVENT\tCLIENT\tDATA")
	for _, ev := range events {
		data, _ := json.Marshal(ev.EventData)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.EventType, ev.ClientID, data)
	}
	return w.Flush()
}
