package commands

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

// resolvePolicies turns the --policies flag value into policy documents. A
// non-empty value is parsed as a JSON array; an empty value switches to an
// interactive prompt on the command's IO. At least one policy must come out
// of either path.
func resolvePolicies(policiesJSON string, stdio IOTuple) ([]authDomain.PolicyDocument, error) {
	var policies []authDomain.PolicyDocument

	if policiesJSON == "" {
		var err error
		if policies, err = promptForPolicies(stdio); err != nil {
			return nil, fmt.Errorf("failed to get policies: %w", err)
		}
	} else if err := json.Unmarshal([]byte(policiesJSON), &policies); err != nil {
		return nil, fmt.Errorf("failed to parse policies JSON: %w", err)
	}

	if len(policies) == 0 {
		return nil, errors.New("at least one policy is required")
	}

	return policies, nil
}

// promptForPolicies collects policy documents from the interactive reader,
// one path plus capability list at a time, until the operator declines to add
// another.
func promptForPolicies(stdio IOTuple) ([]authDomain.PolicyDocument, error) {
	reader := bufio.NewReader(stdio.Reader)

	var policies []authDomain.PolicyDocument

	_, _ = fmt.Fprintln(stdio.Writer, "\nEnter policies for the client")
	_, _ = fmt.Fprintln(stdio.Writer, "Available capabilities: read, write, revoke, admin")
	_, _ = fmt.Fprintln(stdio.Writer)

	for num := 1; ; num++ {
		_, _ = fmt.Fprintf(stdio.Writer, "Policy #%d\n", num)

		path, err := promptLine(reader, stdio.Writer, "Enter path pattern (e.g., '/api/v1/attestations/*' or '*'): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read path: %w", err)
		}

		if path == "" {
			return nil, errors.New("path cannot be empty")
		}

		capsInput, err := promptLine(reader, stdio.Writer, "Enter capabilities (comma-separated, e.g., 'read,write'): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read capabilities: %w", err)
		}

		if capsInput == "" {
			return nil, errors.New("capabilities cannot be empty")
		}

		capabilities, err := parseCapabilities(capsInput)
		if err != nil {
			return nil, err
		}

		policies = append(policies, authDomain.PolicyDocument{
			Path:         path,
			Capabilities: capabilities,
		})

		again, err := promptLine(reader, stdio.Writer, "Add another policy? (y/n): ")
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}

		if answer := strings.ToLower(again); answer != "y" && answer != "yes" {
			return policies, nil
		}

		_, _ = fmt.Fprintln(stdio.Writer)
	}
}

// promptLine prints a prompt and reads one trimmed line of input.
func promptLine(reader *bufio.Reader, writer io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(writer, prompt)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// parseCapabilities splits a comma-separated capability list, dropping empty
// entries. Unknown names are passed through; authorization checks simply never
// match them.
func parseCapabilities(input string) ([]authDomain.Capability, error) {
	var capabilities []authDomain.Capability

	for _, part := range strings.Split(input, ",") {
		if name := strings.TrimSpace(part); name != "" {
			capabilities = append(capabilities, authDomain.Capability(name))
		}
	}

	if len(capabilities) == 0 {
		return nil, errors.New("at least one capability is required")
	}

	return capabilities, nil
}

// printPolicies renders a numbered policy listing for interactive sessions.
func printPolicies(writer io.Writer, policies []authDomain.PolicyDocument) {
	for i, policy := range policies {
		names := make([]string, len(policy.Capabilities))
		for j, capability := range policy.Capabilities {
			names[j] = string(capability)
		}

		_, _ = fmt.Fprintf(writer, "  %d. Path: %s, Capabilities: [%s]\n", i+1, policy.Path, strings.Join(names, ", "))
	}
}
