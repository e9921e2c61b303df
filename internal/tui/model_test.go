package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/waymark-app/waymark/internal/report"
)

type fakeClient struct {
	reports    []report.Report
	openedURLs []string
	reportsErr error
}

func (c *fakeClient) Reports(context.Context) ([]report.Report, error) {
	if c.reportsErr != nil {
		return nil, c.reportsErr
	}
	out := make([]report.Report, len(c.reports))
	copy(out, c.reports)
	return out, nil
}

func (c *fakeClient) Create(_ context.Context, title, description string) (report.Report, error) {
	r, err := report.New(title, description, 12.34, 56.78)
	if err != nil {
		return report.Report{}, err
	}
	c.reports = append(c.reports, r)
	return r, nil
}

func (c *fakeClient) Delete(_ context.Context, index int) error {
	if index < 0 || index >= len(c.reports) {
		return report.ErrIndexOutOfRange
	}
	c.reports = append(c.reports[:index], c.reports[index+1:]...)
	return nil
}

func (c *fakeClient) MapURL(index int) (string, error) {
	if index < 0 || index >= len(c.reports) {
		return "", report.ErrIndexOutOfRange
	}
	r := c.reports[index]
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", r.Latitude, r.Longitude), nil
}

func (c *fakeClient) OpenMap(index int) error {
	url, err := c.MapURL(index)
	if err != nil {
		return err
	}
	c.openedURLs = append(c.openedURLs, url)
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, client *fakeClient) Model {
	t.Helper()
	model := NewModel(Options{Client: client})
	cmd := model.Init()
	require.NotNil(t, cmd)

	msg := model.loadReportsCmd()()
	require.IsType(t, loadedMsg{}, msg)
	next, _ := model.Update(msg)
	return next.(Model)
}

func TestModelStartsOnListScreen(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reports: []report.Report{
		{Title: "Fire", Description: "Smoke seen", Latitude: 12.34, Longitude: 56.78},
	}}
	model := loadedModel(t, client)

	require.Equal(t, ScreenList, model.screen)
	require.Len(t, model.reportsList.Items(), 1)
	require.Contains(t, model.View(), "Fire")
}

func TestEmptyListShowsGuidance(t *testing.T) {
	t.Parallel()

	model := loadedModel(t, &fakeClient{})
	require.Contains(t, model.View(), "No reports yet")
}

func TestAddFormSubmitCreatesReport(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	model := loadedModel(t, client)

	next, _ := model.Update(keyMsg("a"))
	model = next.(Model)
	require.Equal(t, ScreenForm, model.screen)

	model.titleInput.SetValue("Fire")
	model.descInput.SetValue("Smoke seen")
	model.focusDesc = true

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, createdMsg{}, msg)
	require.NoError(t, msg.(createdMsg).err)
	require.Len(t, client.reports, 1)

	next, _ = model.Update(msg)
	model = next.(Model)
	require.Equal(t, ScreenList, model.screen)
}

func TestFormRejectsEmptyFields(t *testing.T) {
	t.Parallel()

	model := loadedModel(t, &fakeClient{})
	next, _ := model.Update(keyMsg("a"))
	model = next.(Model)
	model.focusDesc = true

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(Model)
	require.Nil(t, cmd)
	require.Contains(t, model.View(), "title and description are required")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reports: []report.Report{
		{Title: "Fire", Description: "Smoke seen", Latitude: 1, Longitude: 2},
	}}
	model := loadedModel(t, client)

	next, _ := model.Update(keyMsg("d"))
	model = next.(Model)
	require.Equal(t, ScreenConfirm, model.screen)

	// Declining keeps the report.
	next, _ = model.Update(keyMsg("n"))
	model = next.(Model)
	require.Equal(t, ScreenList, model.screen)
	require.Len(t, client.reports, 1)

	// Confirming deletes it.
	next, _ = model.Update(keyMsg("d"))
	model = next.(Model)
	next, cmd := model.Update(keyMsg("y"))
	model = next.(Model)
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, deletedMsg{}, msg)
	require.NoError(t, msg.(deletedMsg).err)
	require.Empty(t, client.reports)

	next, _ = model.Update(msg)
	require.Equal(t, ScreenList, next.(Model).screen)
}

func TestDetailScreenShowsMapLink(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reports: []report.Report{
		{Title: "Fire", Description: "Smoke seen", Latitude: 12.34, Longitude: 56.78},
	}}
	model := loadedModel(t, client)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(Model)
	require.Equal(t, ScreenDetail, model.screen)
	require.Contains(t, model.View(), "12.34,56.78")
	require.Contains(t, model.View(), "google.com/maps/search")

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ScreenList, next.(Model).screen)
}

func TestMapKeyOpensExternalViewer(t *testing.T) {
	t.Parallel()

	client := &fakeClient{reports: []report.Report{
		{Title: "Fire", Description: "Smoke seen", Latitude: 12.34, Longitude: 56.78},
	}}
	model := loadedModel(t, client)

	_, cmd := model.Update(keyMsg("m"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, mapOpenedMsg{}, msg)
	require.NoError(t, msg.(mapOpenedMsg).err)
	require.Len(t, client.openedURLs, 1)
}

func TestStoreChangeSignalRefreshesList(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	changes := make(chan struct{}, 1)
	model := NewModel(Options{Client: client, Changes: changes})

	client.reports = append(client.reports, report.Report{
		Title: "Fire", Description: "Smoke seen", Latitude: 1, Longitude: 2,
	})
	changes <- struct{}{}

	waitCmd := model.waitForChangeCmd()
	require.NotNil(t, waitCmd)
	msg := waitCmd()
	require.IsType(t, storeChangedMsg{}, msg)

	next, cmd := model.Update(msg)
	require.NotNil(t, cmd)
	model = next.(Model)

	loadMsg := model.loadReportsCmd()()
	next, _ = model.Update(loadMsg)
	require.Len(t, next.(Model).reportsList.Items(), 1)
}

func TestRunRefusesWithoutTTY(t *testing.T) {
	t.Parallel()

	err := Run(Options{Client: &fakeClient{}, IsTTY: func() bool { return false }})
	require.Error(t, err)
}
