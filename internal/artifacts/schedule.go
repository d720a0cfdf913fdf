package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"imprint/internal/imprint"
)

var planRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// schedule is the launch plan for a new imprint. Slots are expressed as
// month offsets from launch rather than calendar dates so regeneration is
// stable regardless of when it runs.
type schedule struct {
	Imprint          string         `json:"imprint"`
	CadencePerYear   int            `json:"cadence_per_year"`
	PrepressChecksum string         `json:"prepress_checksum"`
	Slots            []scheduleSlot `json:"slots"`
	PlanMarkdown     string         `json:"plan_markdown"`
	PlanHTML         string         `json:"plan_html"`
}

type scheduleSlot struct {
	MonthOffset int    `json:"month_offset"`
	Title       string `json:"working_title"`
	Genre       string `json:"genre"`
	Theme       string `json:"theme,omitempty"`
	Milestone   string `json:"milestone"`
}

// launchCadence picks how many titles the first year carries based on the
// breadth of the genre list. One genre is a slow build; a wide list front
// loads the catalog.
func launchCadence(genres int) int {
	switch {
	case genres <= 1:
		return 4
	case genres == 2:
		return 6
	default:
		return 8
	}
}

func generateSchedule(def imprint.Definition, upstream Set) ([]byte, error) {
	prepress, ok := upstream[TypePrepressWorkflow]
	if !ok {
		return nil, &MissingDependencyError{ArtifactType: TypeSchedule, Missing: string(TypePrepressWorkflow)}
	}
	if len(def.Focus.Genres) == 0 {
		return nil, &MissingDependencyError{ArtifactType: TypeSchedule, Missing: "focus.genres"}
	}

	slots := seedSlots(def)
	plan := planMarkdown(def, slots)
	html, err := renderPlanHTML(plan)
	if err != nil {
		return nil, err
	}

	sched := schedule{
		Imprint:          def.Name,
		CadencePerYear:   launchCadence(len(def.Focus.Genres)),
		PrepressChecksum: prepress.Checksum,
		Slots:            slots,
		PlanMarkdown:     plan,
		PlanHTML:         html,
	}
	content, err := json.MarshalIndent(sched, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	return append(content, '\n'), nil
}

// seedSlots derives working titles from the genre and theme lists in order,
// so every genre gets at least one slot and the same definition always
// yields the same plan.
func seedSlots(def imprint.Definition) []scheduleSlot {
	cadence := launchCadence(len(def.Focus.Genres))
	slots := make([]scheduleSlot, 0, cadence)
	spacing := 12 / cadence
	if spacing < 1 {
		spacing = 1
	}
	for i := 0; i < cadence; i++ {
		genre := def.Focus.Genres[i%len(def.Focus.Genres)]
		var theme string
		if len(def.Focus.Themes) > 0 {
			theme = def.Focus.Themes[i%len(def.Focus.Themes)]
		}
		slots = append(slots, scheduleSlot{
			MonthOffset: i * spacing,
			Title:       workingTitle(def.Name, genre, theme, i),
			Genre:       genre,
			Theme:       theme,
			Milestone:   slotMilestone(i),
		})
	}
	return slots
}

func workingTitle(name, genre, theme string, index int) string {
	base := fmt.Sprintf("%s %s #%d", imprint.DisplayName(name), imprint.DisplayGenre(genre), index+1)
	if theme != "" {
		return fmt.Sprintf("%s: %s", base, imprint.DisplayName(imprint.Slugify(theme)))
	}
	return base
}

func slotMilestone(index int) string {
	if index == 0 {
		return "launch-title"
	}
	return "catalog"
}

func planMarkdown(def imprint.Definition, slots []scheduleSlot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s launch plan\n\n", imprint.DisplayName(def.Name))
	if def.Tagline != "" {
		fmt.Fprintf(&b, "_%s_\n\n", def.Tagline)
	}
	b.WriteString("| Month | Working title | Genre | Milestone |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, slot := range slots {
		fmt.Fprintf(&b, "| M+%d | %s | %s | %s |\n",
			slot.MonthOffset, slot.Title, imprint.DisplayGenre(slot.Genre), slot.Milestone)
	}
	return b.String()
}

func renderPlanHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := planRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render plan preview: %w", err)
	}
	return buf.String(), nil
}
