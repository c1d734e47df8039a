package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"cooldown-planner/fight"
	"cooldown-planner/optimizer"
)

const (
	planSheet     = "Plan"
	timelineSheet = "Timeline"
)

// ExportXLSX writes the plan as a workbook with a flat assignment sheet
// and a timeline grid of characters' spells against attacks.
func ExportXLSX(path string, p *optimizer.Plan, m *fight.Model) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(timelineSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writePlanSheet(f, p, m, headerStyle); err != nil {
		return err
	}
	if err := writeTimelineSheet(f, p, m, headerStyle); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func writePlanSheet(f *excelize.File, p *optimizer.Plan, m *fight.Model, headerStyle int) error {
	headers := []any{"Time", "Attack", "Need", "Character", "Spell", "Cast", "Assignment"}
	if err := f.SetSheetRow(planSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(planSheet, "A1", "G1", headerStyle); err != nil {
		return err
	}
	row := 2
	for _, d := range Details(p, m) {
		for _, c := range d.Casts {
			vals := []any{d.Attack.Time.String(), attackTitle(d.Attack), string(d.Attack.Need.Category),
				c.Character, c.Spell, c.At.String(), c.Assignment.ID}
			if err := f.SetSheetRow(planSheet, fmt.Sprintf("A%d", row), &vals); err != nil {
				return err
			}
			row++
		}
	}
	row++
	if err := f.SetCellValue(planSheet, fmt.Sprintf("E%d", row), "Score"); err != nil {
		return err
	}
	if err := f.SetCellValue(planSheet, fmt.Sprintf("F%d", row), p.Score); err != nil {
		return err
	}
	if err := f.SetColWidth(planSheet, "A", "F", 14); err != nil {
		return err
	}
	return f.SetColWidth(planSheet, "G", "G", 38)
}

// writeTimelineSheet lays out one row per capability and one column per
// attack; a cell holds the cast time when that pair answers the attack.
func writeTimelineSheet(f *excelize.File, p *optimizer.Plan, m *fight.Model, headerStyle int) error {
	attacks := m.Attacks()
	if err := f.SetCellValue(timelineSheet, "A1", "Character"); err != nil {
		return err
	}
	if err := f.SetCellValue(timelineSheet, "B1", "Spell"); err != nil {
		return err
	}
	for i := range attacks {
		cell, err := excelize.CoordinatesToCellName(i+3, 1)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%s %s", attacks[i].Time, attackTitle(&attacks[i]))
		if err := f.SetCellValue(timelineSheet, cell, label); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(attacks) + 2)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(timelineSheet, "A1", last+"1", headerStyle); err != nil {
		return err
	}

	rows := make(map[fight.Capability]int)
	for i, capa := range m.Capabilities() {
		row := i + 2
		rows[capa] = row
		name := string(capa.Character)
		if c, ok := m.Character(capa.Character); ok && c.Name != "" {
			name = c.Name
		}
		spell := fmt.Sprintf("#%d", capa.Spell)
		if s, ok := m.Spell(capa.Spell); ok && s.Name != "" {
			spell = s.Name
		}
		if err := f.SetCellValue(timelineSheet, fmt.Sprintf("A%d", row), name); err != nil {
			return err
		}
		if err := f.SetCellValue(timelineSheet, fmt.Sprintf("B%d", row), spell); err != nil {
			return err
		}
	}
	for _, d := range Details(p, m) {
		col := m.AttackIndex(d.Attack.ID) + 3
		for _, c := range d.Casts {
			row, ok := rows[c.Assignment.Key()]
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(timelineSheet, cell, c.At.String()); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(timelineSheet, "A", last, 16)
}
