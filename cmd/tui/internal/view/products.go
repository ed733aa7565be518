package view

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/loroshop/loro/internal/catalog"
	"github.com/loroshop/loro/internal/importer"
)

type productsState int

const (
	productsStateBrowse productsState = iota
	productsStateAdd
	productsStateImport
)

type ProductsModel struct {
	CommonModel
	svc    *catalog.Service
	parser *importer.Parser

	state    productsState
	table    table.Model
	products []*catalog.Product
	form     *huh.Form

	loading      bool
	err          error
	status       string
	confirmClear bool

	// Form bindings
	formName  string
	formSKU   string
	formPrice string
	formPath  string
}

func NewProductsModel(svc *catalog.Service, parser *importer.Parser) ProductsModel {
	columns := []table.Column{
		{Title: "Product", Width: 30},
		{Title: "SKU", Width: 14},
		{Title: "Supply price", Width: 14},
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

	return ProductsModel{
		svc:    svc,
		parser: parser,
		table:  t,
	}
}

func (m ProductsModel) Title() string { return "Products" }
func (m ProductsModel) ShortHelp() string {
	if m.state != productsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | i: import CSV | x: delete | C: clear all | r: refresh"
}

func (m ProductsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ProductsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.products = msg.products
		m.refreshTable()

		return m, nil

	case productSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = "Product saved"
		}

		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case productsImportedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Import failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Imported %d products (%d rows failed)", msg.imported, msg.failed)
		}

		m.state = productsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case productDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Product deleted"
		}

		return m, m.loadCmd()

	case productsClearedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error clearing: %v", msg.err)
		} else {
			m.status = "All products deleted"
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == productsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m ProductsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() != "C" {
			m.confirmClear = false
		}

		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "i":
			return m.enterImportMode()
		case "x":
			return m, m.deleteCmd()
		case "C":
			// Clearing the whole catalog wants a second keypress.
			if !m.confirmClear {
				m.confirmClear = true
				m.status = "Press C again to delete every product"

				return m, nil
			}

			m.confirmClear = false

			return m, m.clearCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ProductsModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formSKU = ""
	m.formPrice = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Product name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("sku").
				Title("SKU").
				Value(&m.formSKU).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("sku cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("price").
				Title("Supply price").
				Value(&m.formPrice).
				Validate(func(s string) error {
					n, err := strconv.ParseInt(s, 10, 64)
					if err != nil || n < 0 {
						return fmt.Errorf("want a non-negative number")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) enterImportMode() (tea.Model, tea.Cmd) {
	m.formPath = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("CSV file path").
				Placeholder("~/Downloads/products.csv").
				Value(&m.formPath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = productsStateImport
	m.table.Blur()

	return m, m.form.Init()
}

func (m ProductsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = productsStateBrowse
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

	if m.state == productsStateImport {
		return m, m.importCmd()
	}

	return m, m.saveCmd()
}

func (m ProductsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading products...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("%d products", len(m.products))),
		tableView,
	)

	if m.state != productsStateBrowse && m.form != nil {
		title := "New Product"
		if m.state == productsStateImport {
			title = "Import CSV"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(title + "\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ProductsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{
			p.Name,
			p.SKU,
			FormatWon(p.SupplyPrice),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type productsLoadedMsg struct {
	products []*catalog.Product
	err      error
}

func (m ProductsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.svc.List(ctx)

		return productsLoadedMsg{products: products, err: err}
	}
}

type productSavedMsg struct {
	err error
}

func (m ProductsModel) saveCmd() tea.Cmd {
	name := strings.TrimSpace(m.formName)
	sku := strings.TrimSpace(m.formSKU)
	priceStr := m.formPrice

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		price, err := strconv.ParseInt(priceStr, 10, 64)
		if err != nil {
			return productSavedMsg{err: err}
		}

		_, err = m.svc.Add(ctx, catalog.CreateParams{
			Name:        name,
			SKU:         sku,
			SupplyPrice: price,
		})

		return productSavedMsg{err: err}
	}
}

type productsImportedMsg struct {
	imported int
	failed   int
	err      error
}

func (m ProductsModel) importCmd() tea.Cmd {
	path := strings.TrimSpace(m.formPath)

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return productsImportedMsg{err: err}
		}
		defer f.Close()

		parsed, err := m.parser.Parse(f)
		if err != nil {
			return productsImportedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.svc.ImportBatch(ctx, parsed.Rows)
		if err != nil {
			return productsImportedMsg{err: err}
		}

		return productsImportedMsg{
			imported: len(result.Imported),
			failed:   len(parsed.Failures) + len(result.Failures),
		}
	}
}

type productDeletedMsg struct {
	err error
}

func (m ProductsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}

	id := m.products[idx].ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return productDeletedMsg{err: m.svc.Delete(ctx, id)}
	}
}

type productsClearedMsg struct {
	err error
}

func (m ProductsModel) clearCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return productsClearedMsg{err: m.svc.ClearAll(ctx)}
	}
}
