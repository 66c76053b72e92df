package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu [dinner-id]",
	Short: "Browse the dinner menu",
	Long:  `List all dinners, or show one dinner's dishes and serving styles by id.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runMenuList(cmd)
	}

	dinnerID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid dinner id %q", args[0])
	}
	return runMenuDetail(cmd, dinnerID)
}

func runMenuList(cmd *cobra.Command) error {
	dinners, err := client.MenuList(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch menu: %w", err)
	}

	fmt.Println(titleStyle.Render("오늘의 디너"))
	for _, d := range dinners {
		fmt.Printf("  [%d] %s  %s\n", d.ID, headerStyle.Render(d.Name), priceStyle.Render(won(d.BasePrice)))
		if d.Description != "" {
			fmt.Println(mutedStyle.Render("      " + d.Description))
		}
	}
	fmt.Println(mutedStyle.Render("\n자세히 보려면: doganjib menu <id>"))
	return nil
}

func runMenuDetail(cmd *cobra.Command, dinnerID int64) error {
	detail, err := client.MenuDetail(cmd.Context(), dinnerID)
	if err != nil {
		return fmt.Errorf("failed to fetch dinner %d: %w", dinnerID, err)
	}

	fmt.Printf("%s  %s\n", titleStyle.Render(detail.Name), priceStyle.Render(won(detail.BasePrice)))
	if detail.Description != "" {
		fmt.Println(mutedStyle.Render(detail.Description))
	}

	fmt.Println(headerStyle.Render("\n구성"))
	for _, dish := range detail.Dishes {
		fmt.Printf("  [%d] %s x%d", dish.ID, dish.Name, dish.DefaultQuantity)
		if dish.UnitPrice > 0 {
			fmt.Printf("  %s", mutedStyle.Render("개당 "+won(dish.UnitPrice)))
		}
		fmt.Println()
	}

	fmt.Println(headerStyle.Render("\n서빙 스타일"))
	for _, style := range detail.AvailableStyles {
		surcharge := "추가금 없음"
		if style.AdditionalPrice > 0 {
			surcharge = "+" + won(style.AdditionalPrice)
		}
		fmt.Printf("  [%d] %s  %s\n", style.ID, style.Name, mutedStyle.Render(surcharge))
	}
	return nil
}
