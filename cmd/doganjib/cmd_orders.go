package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"doganjib/internal/models"
)

var ordersCmd = &cobra.Command{
	Use:   "orders [order-id]",
	Short: "Show order history and delivery status",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOrders,
}

// statusLabels renders pipeline stages for customers.
var statusLabels = map[models.OrderStatus]string{
	models.OrderStatusCheckingStock: "재고 확인 중",
	models.OrderStatusReceived:      "주문 접수",
	models.OrderStatusInKitchen:     "조리 중",
	models.OrderStatusDelivering:    "배송 중",
	models.OrderStatusDelivered:     "배송 완료",
}

func runOrders(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		orders, err := client.Orders(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch orders: %w", err)
		}
		if len(orders) == 0 {
			fmt.Println("주문 내역이 없어요.")
			return nil
		}

		fmt.Println(titleStyle.Render("주문 내역"))
		for _, o := range orders {
			fmt.Printf("  [%d] %s  %s  %s\n",
				o.ID,
				o.CreatedAt.Format("2006-01-02"),
				priceStyle.Render(won(o.TotalPrice)),
				headerStyle.Render(statusLabel(o.Status)))
		}
		return nil
	}

	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	order, err := client.Order(cmd.Context(), orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	fmt.Printf("%s  %s\n", titleStyle.Render(fmt.Sprintf("주문 #%d", order.ID)), headerStyle.Render(statusLabel(order.Status)))
	fmt.Printf("배송지: %s, 배송일: %s\n", order.DeliveryAddress, order.DeliveryDate)
	for _, item := range order.Items {
		fmt.Printf("  %s (%s) x%d  %s\n",
			item.DinnerName, item.ServingStyleName, item.Quantity, priceStyle.Render(won(item.TotalPrice)))
		for _, c := range item.Customizations {
			sign := "+"
			if c.Action == models.CustomizationRemove {
				sign = "-"
			}
			fmt.Println(mutedStyle.Render(fmt.Sprintf("    %s %s x%d", sign, c.DishName, c.Quantity)))
		}
	}
	fmt.Printf("합계: %s\n", priceStyle.Render(won(order.TotalPrice)))
	return nil
}

func statusLabel(s models.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}
