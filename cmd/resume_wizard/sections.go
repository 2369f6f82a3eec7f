package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/jonathan/resume-wizard/internal/wizard"
	"github.com/jonathan/resume-wizard/internal/wizard/fieldarray"
	"github.com/jonathan/resume-wizard/internal/wizard/reorder"
)

// runSection drives one repeated-section step: a field-array editor over T
// with add, edit, move, and remove, followed by an apply and a remote save.
// edit fills in one record in place; label names a record in menus.
func runSection[T any](ctx context.Context, f *flow, step wizard.StepKey,
	initial []T, edit func(*T) error, label func(T) string,
	save func(context.Context, []T) error) error {

	// Every list mutation revalidates and merges through the machine, so the
	// draft tracks the editor even before the step is finished.
	ctrl := fieldarray.New[T](func(values []T) {
		if _, err := f.apply(step, values); err != nil {
			f.logger.Debug("merge rejected", zap.String("step", string(step)), zap.Error(err))
		}
	})
	ctrl.Reset(initial)
	mover := reorder.NewAdapter(ctrl)

	pickItem := func(prompt string) (fieldarray.Item[T], bool, error) {
		items := ctrl.Items()
		if len(items) == 0 {
			fmt.Println("No entries yet.")
			return fieldarray.Item[T]{}, false, nil
		}
		labels := make([]string, len(items))
		for i, it := range items {
			labels[i] = fmt.Sprintf("%d. %s", i+1, label(it.Value))
		}
		s := newSelect(prompt, labels)
		idx, _, err := s.Run()
		if err != nil {
			return fieldarray.Item[T]{}, false, fmt.Errorf("prompt aborted: %w", err)
		}
		return items[idx], true, nil
	}

	for {
		choice, err := selectOne(string(step), []string{"Add", "Edit", "Move", "Remove", "List", "Done"})
		if err != nil {
			return err
		}
		switch choice {
		case "Add":
			var value T
			if err := edit(&value); err != nil {
				return err
			}
			ctrl.Append(value)
		case "Edit":
			item, ok, err := pickItem("Edit which entry")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			value := item.Value
			if err := edit(&value); err != nil {
				return err
			}
			ctrl.Update(ctrl.IndexOf(item.ID), value)
		case "Move":
			active, ok, err := pickItem("Move which entry")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			over, ok, err := pickItem("Move to the position of")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if !mover.CompleteDrag(active.ID, over.ID) {
				fmt.Println("Nothing moved.")
			}
		case "Remove":
			item, ok, err := pickItem("Remove which entry")
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			ctrl.Remove(ctrl.IndexOf(item.ID))
		case "List":
			for i, it := range ctrl.Items() {
				fmt.Printf("  %d. %s\n", i+1, label(it.Value))
			}
		case "Done":
			values := ctrl.Values()
			ok, err := f.apply(step, values)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if len(values) > 0 {
				if err := f.persist(ctx, step, func(ctx context.Context) error {
					return save(ctx, values)
				}); err != nil {
					return fmt.Errorf("failed to save %s: %w", step, err)
				}
			}
			f.machine.Advance()
			return nil
		}
	}
}

func (f *flow) stepWorkExperience(ctx context.Context) error {
	return runSection(ctx, f, wizard.StepWorkExperience, f.machine.Draft().WorkExperiences,
		func(w *types.WorkExperience) error {
			var err error
			if w.Company, err = promptText("Company", w.Company); err != nil {
				return err
			}
			if w.Position, err = promptText("Position", w.Position); err != nil {
				return err
			}
			if w.StartDate, err = promptText("Start date", w.StartDate); err != nil {
				return err
			}
			if w.EndDate, err = promptText("End date (blank if current)", w.EndDate); err != nil {
				return err
			}
			w.Description, err = promptText("Description", w.Description)
			return err
		},
		func(w types.WorkExperience) string {
			return fmt.Sprintf("%s at %s", w.Position, w.Company)
		},
		func(ctx context.Context, values []types.WorkExperience) error {
			entries := make([]types.WorkExperienceEntry, 0, len(values))
			for _, w := range values {
				entries = append(entries, types.WorkExperienceEntry{
					Company:     w.Company,
					Position:    w.Position,
					StartDate:   w.StartDate,
					EndDate:     w.EndDate,
					Description: w.Description,
				})
			}
			return f.client.AddKnowledgeGraph(ctx, types.KnowledgeGraphAdd{WorkExperience: entries})
		})
}

func (f *flow) stepEducation(ctx context.Context) error {
	return runSection(ctx, f, wizard.StepEducation, f.machine.Draft().Educations,
		func(e *types.Education) error {
			var err error
			if e.School, err = promptText("School", e.School); err != nil {
				return err
			}
			if e.Degree, err = promptText("Degree", e.Degree); err != nil {
				return err
			}
			if e.StartDate, err = promptText("Start date", e.StartDate); err != nil {
				return err
			}
			if e.EndDate, err = promptText("End date (blank if ongoing)", e.EndDate); err != nil {
				return err
			}
			e.Marks, err = promptText("GPA / marks", e.Marks)
			return err
		},
		func(e types.Education) string {
			return fmt.Sprintf("%s, %s", e.Degree, e.School)
		},
		func(ctx context.Context, values []types.Education) error {
			entries := make([]types.EducationEntry, 0, len(values))
			for _, e := range values {
				entries = append(entries, types.EducationEntry{
					Degree:      e.Degree,
					Institution: e.School,
					StartDate:   e.StartDate,
					EndDate:     e.EndDate,
					GPA:         e.Marks,
				})
			}
			return f.client.AddKnowledgeGraph(ctx, types.KnowledgeGraphAdd{Education: entries})
		})
}

func (f *flow) stepProjects(ctx context.Context) error {
	return runSection(ctx, f, wizard.StepProjects, f.machine.Draft().Projects,
		func(p *types.Project) error {
			var err error
			if p.Title, err = promptText("Project title", p.Title); err != nil {
				return err
			}
			if p.Link, err = promptText("Link", p.Link); err != nil {
				return err
			}
			if p.StartDate, err = promptText("Start date", p.StartDate); err != nil {
				return err
			}
			if p.EndDate, err = promptText("End date", p.EndDate); err != nil {
				return err
			}
			p.Description, err = promptText("Description", p.Description)
			return err
		},
		func(p types.Project) string { return p.Title },
		func(ctx context.Context, values []types.Project) error {
			entries := make([]types.ProjectEntry, 0, len(values))
			for _, p := range values {
				entries = append(entries, types.ProjectEntry{
					Name:        p.Title,
					URL:         p.Link,
					StartDate:   p.StartDate,
					EndDate:     p.EndDate,
					Description: p.Description,
				})
			}
			return f.client.AddKnowledgeGraph(ctx, types.KnowledgeGraphAdd{Projects: entries})
		})
}

func (f *flow) stepResearch(ctx context.Context) error {
	return runSection(ctx, f, wizard.StepResearch, f.machine.Draft().ResearchPapers,
		func(r *types.ResearchPaper) error {
			var err error
			if r.Title, err = promptText("Paper title", r.Title); err != nil {
				return err
			}
			if r.Venue, err = promptText("Venue", r.Venue); err != nil {
				return err
			}
			if r.Date, err = promptText("Date", r.Date); err != nil {
				return err
			}
			if r.URL, err = promptText("URL", r.URL); err != nil {
				return err
			}
			r.Description, err = promptText("Description", r.Description)
			return err
		},
		func(r types.ResearchPaper) string { return r.Title },
		func(ctx context.Context, values []types.ResearchPaper) error {
			entries := make([]types.ResearchEntry, 0, len(values))
			for _, r := range values {
				entries = append(entries, types.ResearchEntry{
					Title:       r.Title,
					Venue:       r.Venue,
					Date:        r.Date,
					Description: r.Description,
					URL:         r.URL,
				})
			}
			return f.client.AddKnowledgeGraph(ctx, types.KnowledgeGraphAdd{ResearchWork: entries})
		})
}
