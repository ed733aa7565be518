package view

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/loroshop/loro/internal/ledger"
)

var (
	metricStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
)

type DashboardModel struct {
	CommonModel
	svc *ledger.Service

	month      string
	settlement *ledger.Settlement
	stats      map[string]ledger.Totals
	recent     []*ledger.Transaction

	recentTable table.Model
	loading     bool
	err         error
}

func NewDashboardModel(svc *ledger.Service) DashboardModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Shop", Width: 12},
		{Title: "Product", Width: 24},
		{Title: "Qty", Width: 5},
		{Title: "Type", Width: 8},
		{Title: "Amount", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(ledger.DefaultRecentLimit),
	)

	return DashboardModel{
		svc:         svc,
		month:       ledger.MonthOf(time.Now()),
		recentTable: t,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }
func (m DashboardModel) ShortHelp() string {
	return "Esc: back | ←/→: change month | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.settlement = msg.settlement
		m.stats = msg.stats
		m.recent = msg.recent
		m.refreshRecentTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "left":
			m.month = shiftMonth(m.month, -1)
			m.loading = true

			return m, m.loadCmd()
		case "right":
			m.month = shiftMonth(m.month, 1)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.recentTable, cmd = m.recentTable.Update(msg)

	return m, cmd
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading settlement...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if m.settlement == nil {
		return ""
	}

	totals := m.settlement.Totals

	metrics := lipgloss.JoinHorizontal(lipgloss.Top,
		metricStyle.Render(fmt.Sprintf("Lent out\n%s", FormatWon(totals.LendTotal))),
		metricStyle.Render(fmt.Sprintf("Borrowed\n%s", FormatWon(totals.BorrowTotal))),
		metricStyle.Render(fmt.Sprintf("Net settlement\n%s", renderNet(totals.Net))),
	)

	perShop := titleStyle.Render("Per-shop settlement ("+m.month+")") + "\n"
	if len(m.settlement.PerShop) == 0 {
		perShop += "  no transactions this month\n"
	}

	for _, shop := range sortedShops(m.settlement.PerShop) {
		t := m.settlement.PerShop[shop]
		perShop += fmt.Sprintf("  %-10s lend %s / borrow %s / net %s\n",
			shop, FormatWon(t.LendTotal), FormatWon(t.BorrowTotal), renderNet(t.Net))
	}

	cumulative := titleStyle.Render("Cumulative shop totals (all months)") + "\n"
	for _, shop := range sortedShops(m.stats) {
		t := m.stats[shop]
		cumulative += fmt.Sprintf("  %-10s lend %s / borrow %s / net %s\n",
			shop, FormatWon(t.LendTotal), FormatWon(t.BorrowTotal), renderNet(t.Net))
	}

	recent := titleStyle.Render("Recent activity") + "\n" + m.recentTable.View()

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Settlement for "+m.month),
			metrics,
			"",
			perShop,
			cumulative,
			recent,
		),
	)
}

func renderNet(net int64) string {
	switch {
	case net > 0:
		return positiveStyle.Render(FormatWon(net))
	case net < 0:
		return negativeStyle.Render(FormatWon(net))
	default:
		return FormatWon(net)
	}
}

func sortedShops[V any](m map[string]V) []string {
	shops := make([]string, 0, len(m))
	for shop := range m {
		shops = append(shops, shop)
	}

	slices.Sort(shops)

	return shops
}

func shiftMonth(month string, delta int) string {
	t, err := time.Parse(ledger.MonthFormat, month)
	if err != nil {
		return month
	}

	return t.AddDate(0, delta, 0).Format(ledger.MonthFormat)
}

func (m *DashboardModel) refreshRecentTable() {
	rows := make([]table.Row, 0, len(m.recent))
	for _, tx := range m.recent {
		amount := FormatWon(tx.Total)
		if tx.Type == ledger.TypeBorrow {
			amount = "-" + amount
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			tx.Shop,
			tx.ProductName,
			fmt.Sprintf("%d", tx.Quantity),
			string(tx.Type),
			amount,
		})
	}

	m.recentTable.SetRows(rows)
}

// Messages

type dashboardLoadedMsg struct {
	settlement *ledger.Settlement
	stats      map[string]ledger.Totals
	recent     []*ledger.Transaction
	err        error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		settlement, err := m.svc.MonthlySettlement(ctx, month)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		stats, err := m.svc.ShopCumulativeStats(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		recent, err := m.svc.RecentActivity(ctx, ledger.DefaultRecentLimit)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{settlement: settlement, stats: stats, recent: recent}
	}
}
