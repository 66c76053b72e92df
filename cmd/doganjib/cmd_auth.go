package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"doganjib/internal/models"
)

var (
	loginEmail    string
	loginPassword string

	registerName    string
	registerAddress string
	registerPhone   string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store tokens locally",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored tokens",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(1),
	RunE:  runRegister,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerName, "name", "", "display name (required)")
	registerCmd.Flags().StringVar(&registerAddress, "address", "", "delivery address")
	registerCmd.Flags().StringVar(&registerPhone, "phone", "", "phone number")
	_ = registerCmd.MarkFlagRequired("name")
}

func runRegister(cmd *cobra.Command, args []string) error {
	fmt.Print("Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return err
	}
	password := strings.TrimSpace(line)

	if err := client.Register(cmd.Context(), models.RegisterRequest{
		Email:    args[0],
		Password: password,
		Name:     registerName,
		Address:  registerAddress,
		Phone:    registerPhone,
	}); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("Account created. Sign in with 'doganjib login'.")
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	email := loginEmail
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
	}

	password := loginPassword
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password = strings.TrimSpace(line)
	}

	if _, err := client.Login(cmd.Context(), models.LoginRequest{
		Email:    email,
		Password: password,
	}); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	profile, err := client.Profile(cmd.Context())
	if err == nil {
		_ = store.SaveProfile(profile)
		fmt.Printf("%s %s님, 환영합니다!\n", titleStyle.Render("도간집"), profile.Name)
		if profile.Grade != "" {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("등급: %s (할인 %d%%)", profile.Grade, profile.DiscountPercent)))
		}
		return nil
	}

	fmt.Println("Signed in.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := client.Logout(cmd.Context()); err != nil {
		// Local tokens are already cleared; the backend call is best effort.
		logger.Warn("backend logout failed")
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !client.Authenticated() {
		fmt.Println("Not signed in. Run 'doganjib login' first.")
		return nil
	}

	profile, err := client.Profile(cmd.Context())
	if err != nil {
		// Fall back to the cached profile when the backend is unreachable.
		cached, cacheErr := store.Profile()
		if cacheErr != nil || cached == nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}
		profile = cached
		fmt.Println(mutedStyle.Render("(cached)"))
	} else {
		_ = store.SaveProfile(profile)
	}

	fmt.Printf("%s <%s>\n", headerStyle.Render(profile.Name), profile.Email)
	if profile.Grade != "" {
		fmt.Printf("등급: %s, 할인 %d%%\n", profile.Grade, profile.DiscountPercent)
	}
	if profile.Address != "" {
		fmt.Printf("주소: %s\n", profile.Address)
	}
	return nil
}
