package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"doganjib/internal/models"
	"doganjib/internal/pricing"
)

var (
	cartAddStyle   int64
	cartAddQty     int
	cartAddExtras  []string
	cartAddRemoves []string

	checkoutAddress string
	checkoutDate    string
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and manage the cart",
	RunE:  runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add <dinner-id>",
	Short: "Add a dinner to the cart",
	Long: `Add a dinner to the cart with a serving style and optional dish changes.

Dish changes use dish-id:quantity pairs:
  doganjib cart add 1 --style 2 --qty 2 --extra 4:1 --without 5:1`,
	Args: cobra.ExactArgs(1),
	RunE: runCartAdd,
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty <item-id> <quantity>",
	Short: "Change a cart line's quantity",
	Args:  cobra.ExactArgs(2),
	RunE:  runCartQty,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

var cartOptionsCmd = &cobra.Command{
	Use:   "options <item-id>",
	Short: "Change a cart line's serving style and dish changes",
	Long: `Replace a cart line's serving style and customizations:
  doganjib cart options 3 --style 1 --extra 4:2`,
	Args: cobra.ExactArgs(1),
	RunE: runCartOptions,
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Turn the cart into an order",
	RunE:  runCheckout,
}

func init() {
	cartAddCmd.Flags().Int64Var(&cartAddStyle, "style", 0, "serving style id (required)")
	cartAddCmd.Flags().IntVar(&cartAddQty, "qty", 1, "dinner quantity")
	cartAddCmd.Flags().StringSliceVar(&cartAddExtras, "extra", nil, "extra dishes as dish-id:quantity")
	cartAddCmd.Flags().StringSliceVar(&cartAddRemoves, "without", nil, "removed dishes as dish-id:quantity")
	_ = cartAddCmd.MarkFlagRequired("style")

	cartOptionsCmd.Flags().Int64Var(&cartAddStyle, "style", 0, "serving style id (required)")
	cartOptionsCmd.Flags().StringSliceVar(&cartAddExtras, "extra", nil, "extra dishes as dish-id:quantity")
	cartOptionsCmd.Flags().StringSliceVar(&cartAddRemoves, "without", nil, "removed dishes as dish-id:quantity")
	_ = cartOptionsCmd.MarkFlagRequired("style")

	cartCheckoutCmd.Flags().StringVar(&checkoutAddress, "address", "", "delivery address (defaults to the profile address)")
	cartCheckoutCmd.Flags().StringVar(&checkoutDate, "date", "", "delivery date, YYYY-MM-DD")
	_ = cartCheckoutCmd.MarkFlagRequired("date")

	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartQtyCmd)
	cartCmd.AddCommand(cartOptionsCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartCheckoutCmd)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	cart, err := client.Cart(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch cart: %w", err)
	}
	printCart(cmd.Context(), cart)
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	dinnerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid dinner id %q", args[0])
	}

	customizations, err := parseCustomizations(cartAddExtras, cartAddRemoves)
	if err != nil {
		return err
	}

	cart, err := client.AddCartItem(cmd.Context(), models.CartItemRequest{
		DinnerID:       dinnerID,
		ServingStyleID: cartAddStyle,
		Quantity:       cartAddQty,
		Customizations: customizations,
	})
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	printCart(cmd.Context(), cart)
	return nil
}

func runCartQty(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}

	cart, err := client.UpdateCartItemQuantity(cmd.Context(), itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	printCart(cmd.Context(), cart)
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	cart, err := client.RemoveCartItem(cmd.Context(), itemID)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	printCart(cmd.Context(), cart)
	return nil
}

func runCartOptions(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	customizations, err := parseCustomizations(cartAddExtras, cartAddRemoves)
	if err != nil {
		return err
	}

	cart, err := client.UpdateCartItemOptions(cmd.Context(), itemID, models.UpdateOptionsRequest{
		ServingStyleID: cartAddStyle,
		Customizations: customizations,
	})
	if err != nil {
		return fmt.Errorf("failed to update options: %w", err)
	}
	printCart(cmd.Context(), cart)
	return nil
}

func runCheckout(cmd *cobra.Command, args []string) error {
	address := checkoutAddress
	if address == "" {
		address = cfg.Assistant.DeliveryAddress
	}
	if address == "" {
		if profile, err := store.Profile(); err == nil && profile != nil {
			address = profile.Address
		}
	}
	if address == "" {
		return fmt.Errorf("no delivery address; pass --address or set one on your profile")
	}

	order, err := client.Checkout(cmd.Context(), models.CheckoutRequest{
		DeliveryAddress: address,
		DeliveryDate:    checkoutDate,
	})
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	fmt.Printf("%s 주문 번호 %d\n", titleStyle.Render("주문 완료!"), order.ID)
	fmt.Printf("배송지: %s, 배송일: %s\n", order.DeliveryAddress, order.DeliveryDate)
	fmt.Printf("결제 금액: %s\n", priceStyle.Render(won(order.TotalPrice)))
	return nil
}

// printCart renders the cart with locally computed totals, applying the
// member discount from the cached profile when one is known.
func printCart(ctx context.Context, cart *models.Cart) {
	if len(cart.Items) == 0 {
		fmt.Println("장바구니가 비어 있어요.")
		return
	}

	resolver := pricing.NewResolver(client, logger)

	fmt.Println(titleStyle.Render("장바구니"))
	var total int64
	for _, item := range cart.Items {
		line := resolver.PriceCartItem(ctx, item)
		lineTotal := pricing.LineTotal(line)
		total += lineTotal

		fmt.Printf("  [%d] %s (%s) x%d  %s\n",
			item.ID, headerStyle.Render(item.DinnerName), item.ServingStyleName,
			item.Quantity, priceStyle.Render(won(lineTotal)))
		for _, c := range item.Customizations {
			sign := "+"
			if c.Action == models.CustomizationRemove {
				sign = "-"
			}
			fmt.Println(mutedStyle.Render(fmt.Sprintf("      %s %s x%d", sign, c.DishName, c.Quantity)))
		}
	}

	fmt.Printf("\n합계: %s\n", priceStyle.Render(won(total)))
	if profile, err := store.Profile(); err == nil && profile != nil && profile.DiscountPercent > 0 {
		discount := pricing.Discount(total, profile.DiscountPercent)
		fmt.Printf("%s 등급 할인 (%d%%): -%s\n", profile.Grade, profile.DiscountPercent, won(discount))
		fmt.Printf("결제 예정 금액: %s\n", priceStyle.Render(won(total-discount)))
	}
}

// parseCustomizations turns dish-id:quantity flags into cart customizations.
func parseCustomizations(extras, removes []string) ([]models.Customization, error) {
	var out []models.Customization
	parse := func(specs []string, action models.CustomizationAction) error {
		for _, spec := range specs {
			parts := strings.SplitN(spec, ":", 2)
			dishID, err := strconv.ParseInt(parts[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid dish spec %q, want dish-id:quantity", spec)
			}
			quantity := 1
			if len(parts) == 2 {
				quantity, err = strconv.Atoi(parts[1])
				if err != nil || quantity < 1 {
					return fmt.Errorf("invalid quantity in %q", spec)
				}
			}
			out = append(out, models.Customization{
				Action:   action,
				DishID:   dishID,
				Quantity: quantity,
			})
		}
		return nil
	}

	if err := parse(extras, models.CustomizationAdd); err != nil {
		return nil, err
	}
	if err := parse(removes, models.CustomizationRemove); err != nil {
		return nil, err
	}
	return out, nil
}
