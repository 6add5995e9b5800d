package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	authDomain "github.com/allisson/tablegate/internal/auth/domain"
	authUseCase "github.com/allisson/tablegate/internal/auth/usecase"
)

// CreatePrincipalOptions holds the flag values for the create-principal command.
type CreatePrincipalOptions struct {
	Username string
	Password string
	Email    string
	Read     bool
	Write    bool
	Delete   bool
	Format   string
}

// RunCreatePrincipal creates a new principal with the given capability grant.
// When the password is empty the user is prompted for one, so the secret never
// lands in shell history. Outputs the created principal in text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreatePrincipal(
	ctx context.Context,
	authUseCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	opts CreatePrincipalOptions,
	io IOTuple,
) error {
	logger.Info("creating new principal", slog.String("username", opts.Username))

	password := opts.Password
	if password == "" {
		prompted, err := promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = prompted
	}

	if !opts.Read && !opts.Write && !opts.Delete {
		logger.Warn("principal created without any capability, it can authenticate but not operate",
			slog.String("username", opts.Username))
	}

	input := &authDomain.CreatePrincipalInput{
		Username: opts.Username,
		Password: password,
		Email:    opts.Email,
		Permissions: authDomain.Permissions{
			Read:   opts.Read,
			Write:  opts.Write,
			Delete: opts.Delete,
		},
	}

	principal, err := authUseCase.CreatePrincipal(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create principal: %w", err)
	}

	if opts.Format == "json" {
		outputPrincipalJSON(principal, io.Writer)
	} else {
		outputPrincipalText(principal, io.Writer)
	}

	logger.Info("principal created successfully",
		slog.String("username", principal.Username),
		slog.Bool("read", principal.Permissions.Read),
		slog.Bool("write", principal.Permissions.Write),
		slog.Bool("delete", principal.Permissions.Delete),
	)

	return nil
}

// promptForPassword reads a password line from the command input.
func promptForPassword(io IOTuple) (string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Enter password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	password := strings.TrimSpace(line)
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// outputPrincipalText outputs the result in human-readable text format.
func outputPrincipalText(principal *authDomain.Principal, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nPrincipal created successfully!")
	_, _ = fmt.Fprintf(writer, "Username: %s\n", principal.Username)
	_, _ = fmt.Fprintf(writer, "Capabilities: %s\n", formatCapabilities(principal.Permissions))
	if principal.Email != "" {
		_, _ = fmt.Fprintf(writer, "Email: %s\n", principal.Email)
	}
}

// outputPrincipalJSON outputs the result in JSON format for machine consumption.
func outputPrincipalJSON(principal *authDomain.Principal, writer io.Writer) {
	result := map[string]interface{}{
		"username":     principal.Username,
		"email":        principal.Email,
		"capabilities": principal.Permissions,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}

// formatCapabilities renders the capability triple as a comma-separated list.
func formatCapabilities(permissions authDomain.Permissions) string {
	capabilities := []string{}
	if permissions.Read {
		capabilities = append(capabilities, string(authDomain.ReadCapability))
	}
	if permissions.Write {
		capabilities = append(capabilities, string(authDomain.WriteCapability))
	}
	if permissions.Delete {
		capabilities = append(capabilities, string(authDomain.DeleteCapability))
	}
	if len(capabilities) == 0 {
		return "(none)"
	}
	return strings.Join(capabilities, ",")
}
