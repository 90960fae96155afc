package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/vidrank/internal/catalog"
	"github.com/pders01/vidrank/internal/config"
	"github.com/pders01/vidrank/internal/format"
	"github.com/pders01/vidrank/internal/launcher"
	"github.com/pders01/vidrank/internal/search"
	"github.com/pders01/vidrank/internal/tracker"
)

type App struct {
	config          *config.Config
	tracker         *tracker.Tracker
	launcher        *launcher.Launcher
	searcher        search.Searcher
	keyHandler      *KeyHandler
	videoList       list.Model
	searchList      list.Model
	searchInput     textinput.Model
	viewport        viewport.Model
	view            View
	previousView    View
	filter          Filter
	sortField       SortField
	report          *tracker.Report
	currentVideo    *catalog.Video
	width           int
	height          int
	err             error
	status          string
	refreshing      bool
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	clock           tracker.Clock
}

func NewApp(tr *tracker.Tracker, searcher search.Searcher, l *launcher.Launcher, cfg *config.Config) *App {
	videoList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	videoList.Title = "› ranking"
	videoList.SetShowStatusBar(false)
	videoList.SetFilteringEnabled(true)
	videoList.SetShowHelp(true)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	vp := viewport.New(0, 0)

	si := textinput.New()
	si.Placeholder = "Search uploads..."

	app := &App{
		config:       cfg,
		tracker:      tr,
		launcher:     l,
		searcher:     searcher,
		videoList:    videoList,
		searchList:   searchList,
		searchInput:  si,
		viewport:     vp,
		view:         ViewRanking,
		previousView: ViewRanking,
		filter:       FilterAll,
		sortField:    SortRank,
		clock:        time.Now,
	}

	app.keyHandler = NewKeyHandler(app)

	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.refresh(),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.videoList.SetSize(msg.Width, msg.Height-4)
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case reportMsg:
		a.refreshing = false
		if msg.err != nil {
			a.err = msg.err
			if msg.err == tracker.ErrRefreshInFlight {
				a.err = nil
				a.status = MsgRefreshBusy
			}
			break
		}
		a.err = nil
		a.report = msg.report
		a.rebuildRanking()
		if indexErr := a.searcher.IndexCatalog(msg.report.Videos); indexErr != nil {
			a.err = indexErr
		}
		switch {
		case msg.report.SaveErr != nil:
			a.status = MsgSnapshotLost
		case msg.report.FirstObservation():
			a.status = MsgFirstSnapshot
		default:
			a.status = MsgRefreshSummary(len(msg.report.Videos), msg.report.RefreshStats.Count)
		}

	case detailRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
		}

	case resetDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.status = MsgResetDone
		}
		a.view = ViewRanking

	case searchResultsMsg:
		if a.view == ViewSearch {
			items := make([]list.Item, len(msg.results))
			for i, result := range msg.results {
				items[i] = result
			}
			a.searchList.SetItems(items)
		}

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewRanking:
		newListModel, cmd := a.videoList.Update(msg)
		a.videoList = newListModel
		cmds = append(cmds, cmd)
	case ViewDetail:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewResetConfirm:
	case ViewSearch:
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)

		newSearchList, listCmd := a.searchList.Update(msg)
		a.searchList = newSearchList
		cmds = append(cmds, listCmd)

		query := a.searchInput.Value()
		if len(query) > 1 {
			cmds = append(cmds, a.performSearch(query))
		}
	}

	return a, tea.Batch(cmds...)
}

// rebuildRanking regenerates the list items from the current report,
// filter and sort field.
func (a *App) rebuildRanking() {
	if a.report == nil {
		return
	}

	now := a.clock()
	first := a.report.FirstObservation()

	videos := make([]catalog.Video, 0, len(a.report.Videos))
	for _, v := range a.report.Videos {
		switch a.filter {
		case FilterVideos:
			if v.IsShort {
				continue
			}
		case FilterShorts:
			if !v.IsShort {
				continue
			}
		}
		videos = append(videos, v)
	}

	switch a.sortField {
	case SortLikes:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].Likes > videos[j].Likes })
	case SortNewest:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].PublishedAt.After(videos[j].PublishedAt) })
	case SortDuration:
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].Duration > videos[j].Duration })
	}

	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = newVideoItem(v, now, first)
	}
	a.videoList.SetItems(items)
	a.videoList.Title = a.rankingTitle()
}

func (a *App) rankingTitle() string {
	title := "› ranking"
	if a.report != nil && a.report.Channel.Name != "" {
		title = "› " + truncateEnd(a.report.Channel.Name, 40)
	}
	return fmt.Sprintf("%s  [%s · %s]", title, a.filter, a.sortField)
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 100 {
		wordWrapWidth = 100
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewRanking:
		if a.report == nil || len(a.report.Videos) == 0 {
			content = lipgloss.NewStyle().
				Width(a.width).
				Height(a.height-4).
				Align(lipgloss.Center, lipgloss.Center).
				Render(GetWelcomeMessage())
		} else {
			content = lipgloss.JoinVertical(
				lipgloss.Top,
				a.channelHeader(),
				a.videoList.View(),
			)
		}
	case ViewDetail:
		content = a.viewport.View()
	case ViewResetConfirm:
		content = a.resetConfirmView()
	case ViewSearch:
		content = a.searchView()
	}

	customStatus := a.getCustomStatusBar()
	if customStatus != "" {
		separatorWidth := a.width - 2
		if separatorWidth < 0 {
			separatorWidth = 0
		}
		separator := lipgloss.NewStyle().
			Foreground(MutedColor).
			Render("─" + strings.Repeat("─", separatorWidth))

		return lipgloss.JoinVertical(lipgloss.Top, content, separator, customStatus)
	}

	return content
}

// channelHeader is the one-line channel summary above the ranking.
func (a *App) channelHeader() string {
	ch := a.report.Channel

	parts := []string{
		fmt.Sprintf("%s subs", format.Count(ch.Subscribers)),
		fmt.Sprintf("%s views", format.Count(ch.TotalViews)),
		fmt.Sprintf("%s likes", format.Count(a.report.TotalLikes)),
	}

	if diff := a.report.ChannelDiff; diff != nil {
		parts = []string{
			fmt.Sprintf("%s subs %s", format.Count(ch.Subscribers), renderMovement(diff.Subscribers)),
			fmt.Sprintf("%s views %s", format.Count(ch.TotalViews), renderMovement(diff.Views)),
			fmt.Sprintf("%s likes %s", format.Count(a.report.TotalLikes), renderMovement(diff.Likes)),
		}
	} else {
		parts = append(parts, HelpStyle.Render("first snapshot"))
	}

	return StatusBarStyle.Render(strings.Join(parts, "  •  "))
}

func renderMovement(delta int64) string {
	dir := format.Classify(delta)
	text := dir.Arrow() + format.SignedCount(delta)
	switch dir {
	case format.DirectionUp:
		return UpStyle.Render(text)
	case format.DirectionDown:
		return DownStyle.Render(text)
	default:
		return SameStyle.Render(text)
	}
}

func (a *App) resetConfirmView() string {
	channelName := "this channel"
	if a.report != nil && a.report.Channel.Name != "" {
		channelName = a.report.Channel.Name
	}

	modalWidth := (a.width * 4) / 5
	if modalWidth < 20 {
		modalWidth = a.width
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height-3).
		Align(lipgloss.Center, lipgloss.Center).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				ErrorMessageStyle.Render("⚠ Reset Snapshot"),
				"",
				ModalTextStyle.Width(modalWidth).Align(lipgloss.Center).
					Render("Clear the stored baseline for "+channelName+"?"),
				"",
				lipgloss.NewStyle().
					Foreground(MutedColor).
					Width(modalWidth).
					Align(lipgloss.Center).
					Render("Movement and deltas start over on the next refresh."),
				"",
				"",
				HelpStyle.Render("Enter: confirm • Esc: cancel"),
			),
		)
}

func (a *App) searchView() string {
	searchInputWidth := a.width - 8
	if searchInputWidth < 10 {
		searchInputWidth = a.width - 4
	}
	a.searchInput.Width = searchInputWidth

	inputBorderColor := MutedColor
	if a.searchInput.Focused() {
		inputBorderColor = AccentColor
	}

	searchInput := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorderColor).
		Padding(0, 1).
		Width(searchInputWidth + 4).
		Render(a.searchInput.View())

	helpText := ""
	if a.searchInput.Focused() {
		helpText = "Type to search • Tab/↓: results • Esc: back"
	} else if len(a.searchList.Items()) > 0 {
		helpText = "↑↓: navigate • Enter: open • Tab/↑: search box • Esc: back"
	} else {
		helpText = "No results found • Tab/↑: search box • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		HeaderStyle.Render("› search"),
		"",
		searchInput,
		lipgloss.NewStyle().
			Foreground(MutedColor).
			Render(helpText),
		"",
		a.searchList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - 3).
		MaxHeight(a.height - 3).
		Render(searchContent)
}

func (a *App) getCustomStatusBar() string {
	commands := a.keyHandler.GetHelpForCurrentView()

	if len(commands) == 0 {
		return ""
	}

	if a.err != nil {
		errorText := StatusErrorStyle.Render(fmt.Sprintf("✗ %v", a.err))
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(errorText)
	}

	statusText := strings.Join(commands, " • ")
	if a.refreshing {
		statusText = MsgRefreshing + "  " + statusText
	} else if a.status != "" {
		statusText = StatusSuccessStyle.Render(a.status) + "  " + statusText
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor).
		Render(statusText)
}

// selectedVideo resolves the highlighted catalog entry in the active
// list, or nil when nothing is selected.
func (a *App) selectedVideo() *catalog.Video {
	var item list.Item
	switch a.view {
	case ViewSearch:
		item = a.searchList.SelectedItem()
	default:
		item = a.videoList.SelectedItem()
	}
	if vi, ok := item.(videoItem); ok {
		v := vi.video
		return &v
	}
	return nil
}

type videoItem struct {
	video catalog.Video
	desc  string
	first bool
}

func newVideoItem(v catalog.Video, now time.Time, first bool) videoItem {
	parts := []string{fmt.Sprintf("%s views", format.Count(v.Views))}
	if !first && v.ViewsDelta != 0 {
		parts[0] += " (" + format.SignedCount(v.ViewsDelta) + ")"
	}
	parts = append(parts,
		fmt.Sprintf("%s likes", format.Count(v.Likes)),
		format.Duration(v.Duration),
		format.RelativeTime(now, v.PublishedAt),
	)

	return videoItem{
		video: v,
		desc:  strings.Join(parts, " • "),
		first: first,
	}
}

func (i videoItem) Title() string {
	title := fmt.Sprintf("#%d %s", i.video.CurrentRank, i.video.Title)
	if !i.first && i.video.RankChange != 0 {
		title = fmt.Sprintf("#%d %s %s", i.video.CurrentRank,
			renderMovement(int64(i.video.RankChange)), i.video.Title)
	}
	if i.video.IsShort {
		title += " " + ShortTagStyle.Render("[short]")
	}
	return title
}

func (i videoItem) Description() string {
	return TimeStyle.Render(i.desc)
}

func (i videoItem) FilterValue() string { return i.video.Title }

type reportMsg struct {
	report *tracker.Report
	err    error
}

type detailRenderedMsg struct {
	content string
}

type resetDoneMsg struct {
	err error
}

type errorMsg struct {
	err error
}

type searchResultsMsg struct {
	results []videoItem
}
