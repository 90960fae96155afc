package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyHandler routes key presses per view. Keeping it out of Update
// keeps the view switch readable.
type KeyHandler struct {
	app *App
}

func NewKeyHandler(app *App) *KeyHandler {
	return &KeyHandler{app: app}
}

func (h *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch h.app.view {
	case ViewRanking:
		return h.handleRankingKeys(msg)
	case ViewDetail:
		return h.handleDetailKeys(msg)
	case ViewSearch:
		return h.handleSearchKeys(msg)
	case ViewResetConfirm:
		return h.handleResetConfirmKeys(msg)
	}
	return h.app, nil
}

func (h *KeyHandler) handleRankingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := h.app

	// Let the list's own filter input swallow keys while active.
	if a.videoList.FilterState() == list.Filtering {
		newListModel, cmd := a.videoList.Update(msg)
		a.videoList = newListModel
		return a, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "r":
		if a.refreshing {
			a.status = MsgRefreshBusy
			return a, nil
		}
		a.status = ""
		return a, a.refresh()

	case "f":
		a.filter = a.filter.Next()
		a.rebuildRanking()
		return a, nil

	case "s":
		a.sortField = a.sortField.Next()
		a.rebuildRanking()
		return a, nil

	case "/":
		a.previousView = a.view
		a.view = ViewSearch
		a.searchInput.SetValue("")
		a.searchInput.Focus()
		a.searchList.SetItems(nil)
		return a, nil

	case "o":
		if video := a.selectedVideo(); video != nil {
			a.status = MsgOpeningVideo
			return a, a.openVideo(video)
		}
		return a, nil

	case "x":
		a.previousView = a.view
		a.view = ViewResetConfirm
		return a, nil

	case "enter":
		if video := a.selectedVideo(); video != nil {
			a.currentVideo = video
			a.previousView = a.view
			a.view = ViewDetail
			return a, a.renderDetail(video)
		}
		return a, nil
	}

	newListModel, cmd := a.videoList.Update(msg)
	a.videoList = newListModel
	return a, cmd
}

func (h *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := h.app

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.view = a.previousView
		a.currentVideo = nil
		return a, nil

	case "o":
		if a.currentVideo != nil {
			a.status = MsgOpeningVideo
			return a, a.openVideo(a.currentVideo)
		}
		return a, nil
	}

	newViewport, cmd := a.viewport.Update(msg)
	a.viewport = newViewport
	return a, cmd
}

func (h *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := h.app

	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.view = ViewRanking
		a.searchInput.Blur()
		return a, nil

	case "tab", "down":
		if a.searchInput.Focused() && len(a.searchList.Items()) > 0 {
			a.searchInput.Blur()
			return a, nil
		}

	case "up":
		if !a.searchInput.Focused() && a.searchList.Index() == 0 {
			a.searchInput.Focus()
			return a, nil
		}

	case "enter":
		if !a.searchInput.Focused() {
			if video := a.selectedVideo(); video != nil {
				a.currentVideo = video
				a.previousView = ViewSearch
				a.view = ViewDetail
				return a, a.renderDetail(video)
			}
		}
	}

	if a.searchInput.Focused() {
		var cmds []tea.Cmd
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)

		if query := a.searchInput.Value(); len(query) > 1 {
			cmds = append(cmds, a.performSearch(query))
		} else {
			a.searchList.SetItems(nil)
		}
		return a, tea.Batch(cmds...)
	}

	newSearchList, cmd := a.searchList.Update(msg)
	a.searchList = newSearchList
	return a, cmd
}

func (h *KeyHandler) handleResetConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := h.app

	switch msg.String() {
	case "enter":
		return a, a.doReset()

	case "esc", "q":
		a.view = a.previousView
		return a, nil
	}

	return a, nil
}

// GetHelpForCurrentView lists the status bar hints per view.
func (h *KeyHandler) GetHelpForCurrentView() []string {
	switch h.app.view {
	case ViewRanking:
		return []string{
			"r: refresh",
			"f: filter",
			"s: sort",
			"/: search",
			"enter: detail",
			"o: open",
			"x: reset",
			"q: quit",
		}
	case ViewDetail:
		return []string{
			"o: open",
			"esc: back",
			"q: quit",
		}
	case ViewSearch:
		return []string{
			"enter: detail",
			"esc: back",
		}
	case ViewResetConfirm:
		return []string{
			"enter: confirm",
			"esc: cancel",
		}
	}
	return nil
}
