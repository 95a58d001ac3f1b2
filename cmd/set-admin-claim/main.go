package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Operational helper, not part of the runtime service: signs in as the seed
// admin account and grants the admin role to a target user id.

var (
	apiURL     string
	adminEmail string
	adminPass  string
)

var rootCmd = &cobra.Command{
	Use:   "set-admin-claim <user-id>",
	Short: "Grant the admin role to a HomePlate user",
	Long: `set-admin-claim signs in as the seed admin account and calls the
grant-admin endpoint for the target user id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := login()
		if err != nil {
			return fmt.Errorf("admin login failed: %w", err)
		}

		if err := grantAdmin(token, args[0]); err != nil {
			return err
		}

		fmt.Printf("Admin role granted to user %s\n", args[0])
		return nil
	},
}

func init() {
	cobra.OnInitialize(func() {
		// .env is optional here; flags and env vars take precedence
		_ = godotenv.Load()
		if adminEmail == "" {
			adminEmail = os.Getenv("SEED_ADMIN_EMAIL")
		}
		if adminPass == "" {
			adminPass = os.Getenv("SEED_ADMIN_PASSWORD")
		}
	})

	rootCmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the HomePlate API")
	rootCmd.Flags().StringVar(&adminEmail, "email", "", "Seed admin email (default SEED_ADMIN_EMAIL)")
	rootCmd.Flags().StringVar(&adminPass, "password", "", "Seed admin password (default SEED_ADMIN_PASSWORD)")
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func login() (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"email":    adminEmail,
		"password": adminPass,
	})

	resp, err := http.Post(apiURL+"/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if !body.Status {
		return "", fmt.Errorf("%s", body.Message)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body.Data, &data); err != nil {
		return "", err
	}
	return data.Token, nil
}

func grantAdmin(token, userID string) error {
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/admin/users/%s/grant-admin", apiURL, userID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if !body.Status {
		return fmt.Errorf("grant admin failed: %s", body.Message)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
