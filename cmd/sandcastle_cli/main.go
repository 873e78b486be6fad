package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sandcastle-labs/sandcastle/client/types"
)

const flagListenAddr = "listen_addr"

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Daemon address")
}

var rootCmd = &cobra.Command{
	Use:   "sandcastle_cli",
	Short: "sandcastle client cli utilities implementation",
}

func main() {
	rootCmd.AddCommand(
		getAccountsCommand(),
		createAccountCommand(),
		createProposalCommand(),
		getProposalsCommand(),
		getProposalCommand(),
		approveCommand(),
		denyCommand(),
		executeCommand(),
		getMultisigCommand(),
		mintCommand(),
		getBalanceCommand(),
		getJournalCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func getRequest(host, path string, response interface{}) error {
	resp, err := http.Get(fmt.Sprintf("http://%s/%s", host, path))
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp.Body, response)
}

func postRequest(host, path string, request, response interface{}) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(
		fmt.Sprintf("http://%s/%s", host, path),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp.Body, response)
}

func decodeResponse(r io.Reader, response interface{}) error {
	responseBody, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err = json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func listenAddr(cmd *cobra.Command) (string, error) {
	addr, err := cmd.Flags().GetString(flagListenAddr)
	if err != nil {
		return "", fmt.Errorf("failed to read configuration: %v", err)
	}
	return addr, nil
}

func renderStatus(s types.SignatureStatus) string {
	switch s {
	case types.SignatureApproved:
		return color.GreenString("approved")
	case types.SignatureDenied:
		return color.RedString("denied")
	default:
		return color.YellowString("undecided")
	}
}

func renderProposal(p *types.Proposal) {
	fmt.Printf("Proposal ID: %d\n", p.ID)
	fmt.Printf("Action: transfer %d to %s (nonce %d)\n", p.Action.Amount, p.Action.Recipient, p.Action.Nonce)
	fmt.Printf("Message: %s\n", p.Message)
	for i := range p.Signatures {
		slot := &p.Signatures[i]
		fmt.Printf("  [%s] %s\n", renderStatus(slot.Status()), slot.PubKey)
	}
}

func getAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_accounts",
		Short: "returns the co-signer accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response AccountsResponse
			if err = getRequest(addr, "getAccounts", &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get accounts: %s", response.ErrorMessage)
			}
			for _, account := range response.Result {
				fmt.Printf("%s: %s\n", account.Name, account.PubKey)
			}
			return nil
		},
	}
}

func createAccountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_account [name]",
		Args:  cobra.ExactArgs(1),
		Short: "registers a new co-signer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response AccountResponse
			if err = postRequest(addr, "createAccount", map[string]string{"name": args[0]}, &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to create account: %s", response.ErrorMessage)
			}
			fmt.Printf("%s: %s\n", response.Result.Name, response.Result.PubKey)
			return nil
		},
	}
}

func createProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_proposal [amount] [recipient] [nonce]",
		Args:  cobra.ExactArgs(3),
		Short: "proposes a transfer from the multisig account",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse amount: %w", err)
			}
			nonce, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse nonce: %w", err)
			}

			request := map[string]interface{}{
				"amount":    amount,
				"recipient": args[1],
				"nonce":     nonce,
			}

			var response ProposalResponse
			if err = postRequest(addr, "createProposal", request, &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to create proposal: %s", response.ErrorMessage)
			}
			renderProposal(&response.Result)
			return nil
		},
	}
}

func getProposalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_proposals",
		Short: "returns all proposals with their decision slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response ProposalsResponse
			if err = getRequest(addr, "getProposals", &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get proposals: %s", response.ErrorMessage)
			}
			for i := range response.Result {
				renderProposal(&response.Result[i])
				fmt.Println()
			}
			return nil
		},
	}
}

func getProposalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_proposal [id]",
		Args:  cobra.ExactArgs(1),
		Short: "returns a single proposal",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse proposal id: %w", err)
			}

			var response ProposalResponse
			if err = getRequest(addr, fmt.Sprintf("getProposal?proposalID=%d", id), &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get proposal: %s", response.ErrorMessage)
			}
			renderProposal(&response.Result)
			return nil
		},
	}
}

func decisionCommand(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Args:  cobra.ExactArgs(2),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse proposal id: %w", err)
			}

			request := map[string]interface{}{
				"proposal_id": id,
				"account":     args[1],
			}

			var response ProposalResponse
			if err = postRequest(addr, path, request, &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("decision failed: %s", response.ErrorMessage)
			}
			renderProposal(&response.Result)
			return nil
		},
	}
}

func approveCommand() *cobra.Command {
	return decisionCommand(
		"approve [id] [account]",
		"approves a proposal as the given account",
		"approveProposal",
	)
}

func denyCommand() *cobra.Command {
	return decisionCommand(
		"deny [id] [account]",
		"denies a proposal as the given account",
		"denyProposal",
	)
}

func executeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "execute [id]",
		Args:  cobra.ExactArgs(1),
		Short: "submits a proposal to the ledger with the collected signatures",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse proposal id: %w", err)
			}

			var response ExecuteResponse
			if err = postRequest(addr, "executeProposal", map[string]int{"proposal_id": id}, &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				fmt.Printf("[%s] %s\n", color.RedString("rejected"), response.ErrorMessage)
				return nil
			}
			fmt.Printf("[%s] tx %s\n", color.GreenString(response.Result.Status), response.Result.TxHash)
			return nil
		},
	}
}

func getMultisigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_multisig",
		Short: "returns (deploying if needed) the multisig account address",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response MultisigResponse
			if err = getRequest(addr, "getMultisig", &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get multisig: %s", response.ErrorMessage)
			}
			fmt.Println(response.Result.Address)
			return nil
		},
	}
}

func mintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mint [amount]",
		Args:  cobra.ExactArgs(1),
		Short: "mints tokens into the multisig account",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			amount, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse amount: %w", err)
			}

			var response ExecuteResponse
			if err = postRequest(addr, "mint", map[string]uint64{"amount": amount}, &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to mint: %s", response.ErrorMessage)
			}
			fmt.Printf("[%s] tx %s\n", color.GreenString(response.Result.Status), response.Result.TxHash)
			return nil
		},
	}
}

func getBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_balance [owner]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the token balance of an address",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response BalanceResponse
			if err = getRequest(addr, fmt.Sprintf("getBalance?owner=%s", args[0]), &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get balance: %s", response.ErrorMessage)
			}
			fmt.Printf("%s: %d\n", response.Result.Owner, response.Result.Balance)
			return nil
		},
	}
}

func getJournalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_journal",
		Short: "returns the audit journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := listenAddr(cmd)
			if err != nil {
				return err
			}

			var response JournalResponse
			if err = getRequest(addr, "getJournal", &response); err != nil {
				return err
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get journal: %s", response.ErrorMessage)
			}
			for _, entry := range response.Result {
				fmt.Printf("%d\t%s\t%s\tproposal %d\t%s\t%s\n",
					entry.Offset,
					entry.Timestamp.Format("2006-01-02 15:04:05"),
					entry.Kind,
					entry.ProposalID,
					entry.Actor,
					entry.Details,
				)
			}
			return nil
		},
	}
}
