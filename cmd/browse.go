package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicectl/internal/adapters/render/listview"
	"github.com/invoicedesk/invoicectl/internal/application"
	"github.com/invoicedesk/invoicectl/internal/domain"
)

const searchDebounceDelay = 300 * time.Millisecond

// stockCycle is the order the stock filter steps through on tab.
var stockCycle = []string{"", string(domain.StockLevelIn), string(domain.StockLevelLow), string(domain.StockLevelOut)}

type catalogLoadedMsg struct {
	err error
}

type searchAppliedMsg struct {
	term string
}

type browseModel struct {
	products *application.ProductService
	input    textinput.Model
	query    application.ListQuery
	stockIdx int
	err      error

	// Keystrokes feed the debouncer; only the trailing term comes back
	// as a searchAppliedMsg through msgs.
	debounce *application.Debouncer[string]
	msgs     chan tea.Msg

	helpStyle lipgloss.Style
	errStyle  lipgloss.Style
}

func newBrowseModel(products *application.ProductService, pageSize int) browseModel {
	input := textinput.New()
	input.Placeholder = "type to search products"
	input.Focus()

	query := application.NewListQuery()
	if pageSize > 0 {
		query.PageSize = pageSize
	}

	msgs := make(chan tea.Msg, 1)
	return browseModel{
		products: products,
		input:    input,
		query:    query,
		debounce: application.NewDebouncer(searchDebounceDelay, func(term string) {
			msgs <- searchAppliedMsg{term: term}
		}),
		msgs:      msgs,
		helpStyle: lipgloss.NewStyle().Faint(true),
		errStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

func (m browseModel) listen() tea.Cmd {
	return func() tea.Msg {
		return <-m.msgs
	}
}

func (m browseModel) Init() tea.Cmd {
	load := func() tea.Msg {
		return catalogLoadedMsg{err: m.products.Refresh(context.Background())}
	}
	return tea.Batch(textinput.Blink, load, m.listen())
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogLoadedMsg:
		m.err = msg.err
		return m, nil

	case searchAppliedMsg:
		m.query = m.query.WithSearch(msg.term)
		return m, m.listen()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.debounce.Stop()
			return m, tea.Quit
		case tea.KeyLeft:
			if view := m.view(); view.HasPrev() {
				m.query = m.query.WithPage(view.Page() - 1)
			}
			return m, nil
		case tea.KeyRight:
			if view := m.view(); view.HasNext() {
				m.query = m.query.WithPage(view.Page() + 1)
			}
			return m, nil
		case tea.KeyTab:
			m.stockIdx = (m.stockIdx + 1) % len(stockCycle)
			m.query = m.query.WithFilter(application.FilterStock, stockCycle[m.stockIdx])
			return m, nil
		}

		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.debounce.Call(m.input.Value())
		}
		return m, cmd

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m browseModel) view() application.View[domain.Product] {
	return m.products.Query(m.query)
}

func (m browseModel) View() string {
	sections := []string{m.input.View()}

	if m.err != nil {
		sections = append(sections, m.errStyle.Render(fmt.Sprintf("load failed: %v (showing last known catalog)", m.err)))
	}

	sections = append(sections, listview.Products(m.view()))

	filter := stockCycle[m.stockIdx]
	if filter == "" {
		filter = "all"
	}
	sections = append(sections, m.helpStyle.Render(
		fmt.Sprintf("stock: %s    tab filter, left/right page, esc quit", filter),
	))

	return strings.Join(sections, "\n")
}

func newProductBrowseCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively with live search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(
				newBrowseModel(app.products, app.pageSize),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}
