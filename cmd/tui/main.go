package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/loroshop/loro/cmd/tui/internal/view"
	"github.com/loroshop/loro/internal/catalog"
	catalogStore "github.com/loroshop/loro/internal/catalog/store"
	"github.com/loroshop/loro/internal/config"
	"github.com/loroshop/loro/internal/database"
	"github.com/loroshop/loro/internal/importer"
	"github.com/loroshop/loro/internal/ledger"
	ledgerStore "github.com/loroshop/loro/internal/ledger/store"
)

type model struct {
	ledgerService  *ledger.Service
	catalogService *catalog.Service
	parser         *importer.Parser

	currentView View

	dashboardView    view.DashboardModel
	transactionsView view.TransactionsModel
	productsView     view.ProductsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDashboard    View = 1
	ViewTransactions View = 2
	ViewProducts     View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(db), cfg.Shops)
	catalogSvc := catalog.NewService(catalogStore.New(db))
	parser := importer.New()

	return model{
		ledgerService:    ledgerSvc,
		catalogService:   catalogSvc,
		parser:           parser,
		currentView:      ViewMenu,
		dashboardView:    view.NewDashboardModel(ledgerSvc),
		transactionsView: view.NewTransactionsModel(ledgerSvc, catalogSvc),
		productsView:     view.NewProductsModel(catalogSvc, parser),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.ledgerService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.ledgerService, m.catalogService)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewProducts
				m.productsView = view.NewProductsModel(m.catalogService, m.parser)

				return m, m.productsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewProducts:
		var newModel tea.Model
		newModel, cmd = m.productsView.Update(msg)
		m.productsView = newModel.(view.ProductsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Loro Shop Ledger\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. Products\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewTransactions:
		return m.transactionsView.View()
	case ViewProducts:
		return m.productsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
