// Package menu provides the line oriented interactive interface of the ledger.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entryservice"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// AccountService provides the account operations used by the menu.
type AccountService interface {
	Create(ctx context.Context, number, holderName string) (domain.Account, error)
	Get(ctx context.Context, number string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Search(ctx context.Context, query string) ([]domain.Account, error)
	Rename(ctx context.Context, number, holderName string) (domain.Account, error)
	Delete(ctx context.Context, number string) error
	IsLowBalance(a domain.Account) bool
}

// LedgerService provides the balance changing operations used by the menu.
type LedgerService interface {
	Deposit(ctx context.Context, number, amount string) (domain.MovementResult, error)
	Withdraw(ctx context.Context, number, amount string) (domain.MovementResult, error)
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// EntryService provides the history and report operations used by the menu.
type EntryService interface {
	History(ctx context.Context, number string) ([]domain.Entry, error)
	Report(ctx context.Context, start, end time.Time) ([]domain.Entry, error)
}

// Option is a single menu section.
type Option struct {
	Key     string
	Title   string
	Handler func(ctx context.Context) error
}

// errExit stops the menu loop.
var errExit = errors.New("exit")

// Menu runs the interactive sections over the ledger services.
type Menu struct {
	scanner  *bufio.Scanner
	out      io.Writer
	accounts AccountService
	ledger   LedgerService
	entries  EntryService
	options  []Option
}

// New returns a Menu reading choices from in and printing to out.
func New(in io.Reader, out io.Writer, as AccountService, ls LedgerService, es EntryService) *Menu {
	m := &Menu{
		scanner:  bufio.NewScanner(in),
		out:      out,
		accounts: as,
		ledger:   ls,
		entries:  es,
	}

	m.options = []Option{
		{Key: "1", Title: "Create Account", Handler: m.createAccount},
		{Key: "2", Title: "Account Operations", Handler: m.accountOperations},
		{Key: "3", Title: "All Accounts", Handler: m.allAccounts},
		{Key: "4", Title: "Search Accounts", Handler: m.search},
		{Key: "5", Title: "Transaction Report", Handler: m.report},
		{Key: "6", Title: "Manage Accounts", Handler: m.manage},
		{Key: "0", Title: "Exit", Handler: func(context.Context) error { return errExit }},
	}

	return m
}

// Run shows the home screen and serves sections until the user exits or the input ends.
func (m *Menu) Run(ctx context.Context) error {
	m.printf("Welcome to the Bank App!\n")

	for {
		m.printHome()

		choice, ok := m.prompt("Choose an option: ")
		if !ok {
			return m.scanner.Err()
		}

		if choice == "" {
			continue
		}

		option, found := m.find(choice)
		if !found {
			m.printf("Unknown option %q.\n", choice)
			continue
		}

		m.printf("\n== %s ==\n", option.Title)

		if err := option.Handler(ctx); err != nil {
			if errors.Is(err, errExit) {
				m.printf("Goodbye!\n")
				return nil
			}

			if errors.Is(err, io.EOF) {
				return m.scanner.Err()
			}

			return err
		}
	}
}

func (m *Menu) find(key string) (Option, bool) {
	for _, o := range m.options {
		if o.Key == key {
			return o, true
		}
	}

	return Option{}, false
}

func (m *Menu) printHome() {
	m.printf("\n")

	for _, o := range m.options {
		m.printf("  %s) %s\n", o.Key, o.Title)
	}
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

// prompt prints label and reads the next trimmed line. ok is false once input ends.
func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s", label)

	if !m.scanner.Scan() {
		m.printf("\n")
		return "", false
	}

	return strings.TrimSpace(m.scanner.Text()), true
}

// ask is prompt for section handlers; the end of input surfaces as io.EOF.
func (m *Menu) ask(label string) (string, error) {
	s, ok := m.prompt(label)
	if !ok {
		return "", io.EOF
	}

	return s, nil
}

// reason renders a rejected operation for the user.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAnomalyFlagged):
		return "Transaction flagged as potentially FRAUDULENT and was not executed."
	case errors.Is(err, errorspkg.ErrInternal):
		return "Something went wrong, please try again."
	}

	s := err.Error()

	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (m *Menu) reject(ctx context.Context, err error) {
	zerolog.Ctx(ctx).Info().Err(err).Msg("operation rejected")
	m.printf("Error: %s\n", reason(err))
}

func (m *Menu) createAccount(ctx context.Context) error {
	number, err := m.ask("Account number: ")
	if err != nil {
		return err
	}

	holder, err := m.ask("Holder name: ")
	if err != nil {
		return err
	}

	account, err := m.accounts.Create(ctx, number, holder)
	if err != nil {
		m.reject(ctx, err)
		return nil
	}

	m.printf("Account %s for %s created successfully!\n", account.Number, account.HolderName)

	return nil
}

func (m *Menu) printBalance(a domain.Account) {
	m.printf("Account %s (%s) balance: %s\n", a.Number, a.HolderName, a.Balance)

	if m.accounts.IsLowBalance(a) {
		m.printf("Warning: low balance!\n")
	}
}

func (m *Menu) accountOperations(ctx context.Context) error {
	number, err := m.ask("Account number: ")
	if err != nil {
		return err
	}

	account, err := m.accounts.Get(ctx, number)
	if err != nil {
		m.reject(ctx, err)
		return nil
	}

	for {
		m.printf("\n")
		m.printBalance(account)
		m.printf("  1) Deposit\n  2) Withdraw\n  3) Transfer\n  4) Transaction History\n  0) Back\n")

		choice, err := m.ask("Choose an operation: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1", "2":
			amount, err := m.ask("Amount: ")
			if err != nil {
				return err
			}

			move := m.ledger.Deposit
			if choice == "2" {
				move = m.ledger.Withdraw
			}

			res, err := move(ctx, account.Number, amount)
			if err != nil {
				m.reject(ctx, err)
				continue
			}

			account = res.Account
			m.printf("Transaction successful. New balance: %s\n", account.Balance)
		case "3":
			to, err := m.ask("Transfer to account: ")
			if err != nil {
				return err
			}

			amount, err := m.ask("Amount: ")
			if err != nil {
				return err
			}

			res, err := m.ledger.Transfer(ctx, domain.CreateTransferParams{
				FromAccountNumber: account.Number,
				ToAccountNumber:   to,
				Amount:            amount,
			})
			if err != nil {
				m.reject(ctx, err)
				continue
			}

			account = res.FromAccount
			m.printf("Transaction successful. New balance: %s\n", account.Balance)
		case "4":
			entries, err := m.entries.History(ctx, account.Number)
			if err != nil {
				m.reject(ctx, err)
				continue
			}

			m.printEntries(entries, false)
		case "0", "":
			return nil
		default:
			m.printf("Unknown operation %q.\n", choice)
		}
	}
}

func (m *Menu) printAccounts(accounts []domain.Account) {
	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tHOLDER\tBALANCE")

	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.Number, a.HolderName, a.Balance)
	}

	w.Flush()
}

func (m *Menu) printEntries(entries []domain.Entry, withAccount bool) {
	if len(entries) == 0 {
		m.printf("No transactions found.\n")
		return
	}

	w := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)

	if withAccount {
		fmt.Fprintln(w, "ACCOUNT\tTYPE\tAMOUNT\tDATE")
	} else {
		fmt.Fprintln(w, "TYPE\tAMOUNT\tDATE")
	}

	for _, e := range entries {
		date := e.CreatedAt.UTC().Format(time.DateTime)
		if withAccount {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.AccountNumber, e.Kind, e.Amount, date)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, e.Amount, date)
		}
	}

	w.Flush()
}

func (m *Menu) allAccounts(ctx context.Context) error {
	accounts, err := m.accounts.List(ctx)
	if err != nil {
		m.reject(ctx, err)
		return nil
	}

	if len(accounts) == 0 {
		m.printf("No accounts yet.\n")
		return nil
	}

	m.printAccounts(accounts)

	return nil
}

func (m *Menu) search(ctx context.Context) error {
	query, err := m.ask("Search by number or holder name: ")
	if err != nil {
		return err
	}

	accounts, err := m.accounts.Search(ctx, query)
	if err != nil {
		m.reject(ctx, err)
		return nil
	}

	if len(accounts) == 0 {
		m.printf("No matching accounts found.\n")
		return nil
	}

	m.printAccounts(accounts)

	return nil
}

func (m *Menu) report(ctx context.Context) error {
	from, err := m.ask("Start date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	to, err := m.ask("End date (YYYY-MM-DD): ")
	if err != nil {
		return err
	}

	start, err := time.Parse(entryservice.DateLayout, from)
	if err != nil {
		m.reject(ctx, domain.ErrInvalidDate)
		return nil
	}

	end, err := time.Parse(entryservice.DateLayout, to)
	if err != nil {
		m.reject(ctx, domain.ErrInvalidDate)
		return nil
	}

	entries, err := m.entries.Report(ctx, start, end)
	if err != nil {
		m.reject(ctx, err)
		return nil
	}

	m.printEntries(entries, true)

	return nil
}

func (m *Menu) manage(ctx context.Context) error {
	number, err := m.ask("Account number: ")
	if err != nil {
		return err
	}

	account, err := m.accounts.Get(ctx, number)
	if err != nil {
		m.reject(ctx, err)
		return nil
	}

	m.printf("%s - %s\n  1) Edit Name\n  2) Delete Account\n  0) Back\n", account.Number, account.HolderName)

	choice, err := m.ask("Choose an action: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		name, err := m.ask("New holder name: ")
		if err != nil {
			return err
		}

		if _, err := m.accounts.Rename(ctx, account.Number, name); err != nil {
			m.reject(ctx, err)
			return nil
		}

		m.printf("Account name updated successfully!\n")
	case "2":
		confirm, err := m.ask("Type the account number to confirm: ")
		if err != nil {
			return err
		}

		if confirm != account.Number {
			m.printf("Deletion cancelled.\n")
			return nil
		}

		if err := m.accounts.Delete(ctx, account.Number); err != nil {
			m.reject(ctx, err)
			return nil
		}

		m.printf("Account and related transactions deleted successfully!\n")
	}

	return nil
}
