package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/loroshop/loro/internal/catalog"
	"github.com/loroshop/loro/internal/ledger"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateAdd
)

type TransactionsModel struct {
	CommonModel
	ledgerSvc  *ledger.Service
	catalogSvc *catalog.Service

	state txState
	table table.Model
	txs   []*ledger.Transaction
	form  *huh.Form

	// Filter cycling
	shopFilterIdx  int
	typeFilterIdx  int
	monthFilterIdx int

	filter  ledger.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formDate     string
	formShop     string
	formType     string
	formProduct  string
	formQuantity string
	formPrice    string
}

func NewTransactionsModel(ledgerSvc *ledger.Service, catalogSvc *catalog.Service) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Shop", Width: 12},
		{Title: "Product", Width: 24},
		{Title: "Qty", Width: 5},
		{Title: "Unit", Width: 10},
		{Title: "Type", Width: 8},
		{Title: "Total", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return TransactionsModel{
		ledgerSvc:  ledgerSvc,
		catalogSvc: catalogSvc,
		table:      t,
		filter:     ledger.ListFilter{},
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }
func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateAdd {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | x: delete | s: shop filter | t: type filter | m: month filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case txLoadMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case txSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = "Transaction saved"
		}

		m.state = txStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case txDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Transaction deleted"
		}

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case txStateBrowse:
		return m.updateBrowse(msg)
	case txStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "a":
			return m.enterAddMode()
		case "x":
			return m, m.deleteCmd()
		case "s":
			m.shopFilterIdx = (m.shopFilterIdx + 1) % (len(m.ledgerSvc.Shops()) + 1)
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		case "m":
			m.monthFilterIdx = (m.monthFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterAddMode() (tea.Model, tea.Cmd) {
	shops := m.ledgerSvc.Shops()

	m.formDate = time.Now().Format(time.DateOnly)
	m.formShop = ""
	if len(shops) > 0 {
		m.formShop = shops[0]
	}

	m.formType = string(ledger.TypeLend)
	m.formProduct = ""
	m.formQuantity = "1"
	m.formPrice = ""

	shopOptions := make([]huh.Option[string], 0, len(shops))
	for _, shop := range shops {
		shopOptions = append(shopOptions, huh.NewOption(shop, shop))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&m.formDate).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, s)
					return err
				}),

			huh.NewSelect[string]().
				Key("shop").
				Title("Shop").
				Options(shopOptions...).
				Value(&m.formShop),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Lend (they owe us)", string(ledger.TypeLend)),
					huh.NewOption("Borrow (we owe them)", string(ledger.TypeBorrow)),
				).
				Value(&m.formType),

			huh.NewInput().
				Key("product").
				Title("Product").
				Value(&m.formProduct).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("product cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.formQuantity).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(s, 10, 64)
					if err != nil || n <= 0 {
						return fmt.Errorf("want a positive number")
					}
					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Unit price").
				Placeholder("blank = catalog supply price").
				Value(&m.formPrice).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					n, err := strconv.ParseInt(s, 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("want a non-negative number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = txStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = txStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [s] Shop: %s | [t] Type: %s | [m] Month: %s",
		activeStyle(m.shopFilterLabel()),
		activeStyle(m.typeFilterLabel()),
		activeStyle(m.monthFilterLabel()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == txStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("New Transaction\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m TransactionsModel) shopFilterLabel() string {
	if m.shopFilterIdx == 0 {
		return "All"
	}

	return m.ledgerSvc.Shops()[m.shopFilterIdx-1]
}

func (m TransactionsModel) typeFilterLabel() string {
	return []string{"All", "Lend", "Borrow"}[m.typeFilterIdx]
}

func (m TransactionsModel) monthFilterLabel() string {
	return []string{"All Time", "This Month", "Last Month"}[m.monthFilterIdx]
}

func (m *TransactionsModel) applyFilter() {
	if m.shopFilterIdx == 0 {
		m.filter.Shop = nil
	} else {
		shop := m.ledgerSvc.Shops()[m.shopFilterIdx-1]
		m.filter.Shop = &shop
	}

	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = new(ledger.TypeLend)
	case 2:
		m.filter.Type = new(ledger.TypeBorrow)
	default:
		m.filter.Type = nil
	}

	now := time.Now()
	switch m.monthFilterIdx {
	case 1:
		m.filter.Month = new(ledger.MonthOf(now))
	case 2:
		m.filter.Month = new(ledger.MonthOf(now.AddDate(0, -1, 0)))
	default:
		m.filter.Month = nil
	}
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		total := FormatWon(tx.Total)
		if tx.Type == ledger.TypeBorrow {
			total = "-" + total
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Shop,
			tx.ProductName,
			fmt.Sprintf("%d", tx.Quantity),
			FormatWon(tx.UnitPrice),
			string(tx.Type),
			total,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type txLoadMsg struct {
	txs []*ledger.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.ledgerSvc.List(ctx, filter)

		return txLoadMsg{txs: txs, err: err}
	}
}

type txSavedMsg struct {
	err error
}

func (m TransactionsModel) saveCmd() tea.Cmd {
	dateStr := m.formDate
	shop := m.formShop
	txType := ledger.Type(m.formType)
	product := strings.TrimSpace(m.formProduct)
	quantityStr := m.formQuantity
	priceStr := strings.TrimSpace(m.formPrice)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		date, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return txSavedMsg{err: err}
		}

		quantity, err := strconv.ParseInt(quantityStr, 10, 64)
		if err != nil {
			return txSavedMsg{err: err}
		}

		var price int64

		if priceStr == "" {
			// Prefill from the catalog, the reason it exists.
			p, err := m.catalogSvc.LookupByName(ctx, product)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return txSavedMsg{err: fmt.Errorf("%q is not in the catalog, enter a unit price", product)}
				}

				return txSavedMsg{err: err}
			}

			price = p.SupplyPrice
		} else {
			price, err = strconv.ParseInt(priceStr, 10, 64)
			if err != nil {
				return txSavedMsg{err: err}
			}
		}

		_, err = m.ledgerSvc.Add(ctx, ledger.CreateParams{
			Date:        date,
			Shop:        shop,
			ProductName: product,
			Quantity:    quantity,
			UnitPrice:   price,
			Type:        txType,
		})

		return txSavedMsg{err: err}
	}
}

type txDeletedMsg struct {
	err error
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return txDeletedMsg{err: m.ledgerSvc.Delete(ctx, id)}
	}
}
