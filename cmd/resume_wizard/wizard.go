package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-wizard/internal/config"
	"github.com/jonathan/resume-wizard/internal/gateway"
	"github.com/jonathan/resume-wizard/internal/ingest"
	"github.com/jonathan/resume-wizard/internal/social"
	"github.com/jonathan/resume-wizard/internal/types"
	"github.com/jonathan/resume-wizard/internal/wizard"
)

var (
	runSessionID string
	runStep      string
	runOut       string
	runPDF       bool
	runVerbose   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive resume wizard",
	Long:  `Walk through every resume step in the terminal, syncing each step to the backend as it is completed, and write the finished preview document at the end.`,
	RunE:  runWizard,
}

func init() {
	runCmd.Flags().StringVar(&runSessionID, "session", "", "Resume an existing session by ID")
	runCmd.Flags().StringVar(&runStep, "step", "", "Step to resume at (requires --session)")
	runCmd.Flags().StringVar(&runOut, "out", "resume.html", "Preview output path")
	runCmd.Flags().BoolVar(&runPDF, "pdf", false, "Also print the preview to PDF")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Enable debug logging")
	rootCmd.AddCommand(runCmd)
}

// flow carries the state shared by every interactive step.
type flow struct {
	client  *gateway.Client
	machine *wizard.Machine
	guard   *wizard.SingleFlight
	logger  *zap.Logger

	// summarySeed holds an optimizer-written summary until the summary step.
	summarySeed string
}

func runWizard(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(runVerbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	cfg := config.NewClientConfig()

	client, err := gateway.New(cfg.BaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if err := authenticate(ctx, client); err != nil {
		return err
	}

	machine, err := buildMachine(ctx, client, logger)
	if err != nil {
		return err
	}

	f := &flow{
		client:  client,
		machine: machine,
		guard:   wizard.NewSingleFlight(),
		logger:  logger,
	}
	if err := f.loop(ctx); err != nil {
		return err
	}
	return writePreview(ctx, machine.Draft(), runOut, runPDF)
}

// authenticate logs the user in or creates an account, re-prompting on a
// failed attempt. The gateway keeps the auth cookie for every later call.
func authenticate(ctx context.Context, client *gateway.Client) error {
	for {
		choice, err := selectOne("Account", []string{"Log in", "Sign up"})
		if err != nil {
			return err
		}

		email, err := promptText("Email", "")
		if err != nil {
			return err
		}
		password, err := promptSecret("Password")
		if err != nil {
			return err
		}

		if choice == "Sign up" {
			resp, err := client.Signup(ctx, types.SignupRequest{Email: email, Password: password})
			if err != nil {
				fmt.Printf("Signup failed: %v\n", err)
				continue
			}
			fmt.Printf("Account created for %s\n", resp.Email)
			return nil
		}

		resp, err := client.Login(ctx, types.LoginRequest{Email: email, Password: password})
		if err != nil {
			fmt.Printf("Login failed: %v\n", err)
			continue
		}
		fmt.Printf("Logged in as %s\n", resp.Email)
		return nil
	}
}

// buildMachine creates the wizard state machine, either fresh with a new
// session or restored from an existing one. Restoring fetches the account and
// the session snapshot concurrently.
func buildMachine(ctx context.Context, client *gateway.Client, logger *zap.Logger) (*wizard.Machine, error) {
	onTransition := func(loc wizard.Location) {
		logger.Debug("step transition",
			zap.String("step", string(loc.Step)),
			zap.String("session_id", loc.SessionID))
	}

	if runSessionID != "" {
		var (
			user *types.AuthUser
			snap *types.ResumeSnapshot
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			u, err := client.Me(gctx)
			if err != nil {
				return fmt.Errorf("failed to load account: %w", err)
			}
			user = u
			return nil
		})
		g.Go(func() error {
			s, err := client.ResumeData(gctx, runSessionID)
			if err != nil {
				return fmt.Errorf("failed to load session %s: %w", runSessionID, err)
			}
			snap = s
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		fmt.Printf("Restored session %s for %s\n", runSessionID, user.Email)
		return wizard.New(wizard.Options{
			InitialStep:  wizard.StepKey(runStep),
			SessionID:    runSessionID,
			Draft:        snap.ToDraft(),
			OnTransition: onTransition,
		})
	}

	if runStep != "" {
		return nil, fmt.Errorf("--step requires --session")
	}

	machine, err := wizard.New(wizard.Options{OnTransition: onTransition})
	if err != nil {
		return nil, err
	}
	sessionID, err := client.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if err := machine.BindSession(sessionID); err != nil {
		return nil, err
	}
	fmt.Printf("Started session %s\n", sessionID)
	return machine, nil
}

// loop runs steps until the last one completes. Each handler is responsible
// for applying its input and moving the machine forward.
func (f *flow) loop(ctx context.Context) error {
	for {
		step := f.machine.Current()
		fmt.Printf("\n== %s ==\n", step.Title)

		var err error
		switch step.Key {
		case wizard.StepGeneralInfo:
			err = f.stepGeneralInfo(ctx)
		case wizard.StepPersonalInfo:
			err = f.stepPersonalInfo(ctx)
		case wizard.StepJobDescription:
			err = f.stepJobDescription(ctx)
		case wizard.StepQuestionnaire:
			err = f.stepQuestionnaire(ctx)
		case wizard.StepOptimize:
			err = f.stepOptimize(ctx)
		case wizard.StepWorkExperience:
			err = f.stepWorkExperience(ctx)
		case wizard.StepEducation:
			err = f.stepEducation(ctx)
		case wizard.StepProjects:
			err = f.stepProjects(ctx)
		case wizard.StepResearch:
			err = f.stepResearch(ctx)
		case wizard.StepSkills:
			err = f.stepSkills(ctx)
		case wizard.StepSummary:
			return f.stepSummary(ctx)
		}
		if err != nil {
			return err
		}
	}
}

// apply submits one step's input through the machine and reports validation
// errors to the terminal. ok is false when the input was rejected and should
// be collected again.
func (f *flow) apply(step wizard.StepKey, raw any) (bool, error) {
	seq := f.machine.Sequence(step)
	res, err := f.machine.Apply(step, seq, raw)
	if err != nil {
		return false, err
	}
	if res.Stale {
		return false, nil
	}
	if !res.Valid {
		for field, msg := range res.Errors {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		return false, nil
	}
	return true, nil
}

// persist runs one remote save for a step, dropping the call when a save for
// the same step is already in flight.
func (f *flow) persist(ctx context.Context, step wizard.StepKey, fn func(context.Context) error) error {
	if !f.guard.Begin(step) {
		f.logger.Debug("persist already in flight", zap.String("step", string(step)))
		return nil
	}
	defer f.guard.Done(step)
	return fn(ctx)
}

func (f *flow) stepGeneralInfo(ctx context.Context) error {
	for {
		draft := f.machine.Draft()
		title, err := promptText("Resume title", draft.General.Title)
		if err != nil {
			return err
		}
		description, err := promptText("Description", draft.General.Description)
		if err != nil {
			return err
		}

		info := types.GeneralInfo{Title: title, Description: description}
		ok, err := f.apply(wizard.StepGeneralInfo, info)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := f.persist(ctx, wizard.StepGeneralInfo, func(ctx context.Context) error {
			return f.client.UpdateSession(ctx, f.machine.SessionID(), info)
		}); err != nil {
			return fmt.Errorf("failed to save general info: %w", err)
		}
		f.machine.Advance()
		return nil
	}
}

func (f *flow) stepPersonalInfo(ctx context.Context) error {
	for {
		draft := f.machine.Draft()
		info := types.PersonalInfo{Socials: draft.Personal.Socials}

		var err error
		if info.Name, err = promptText("Full name", draft.Personal.Name); err != nil {
			return err
		}
		if info.JobTitle, err = promptText("Current job title", draft.Personal.JobTitle); err != nil {
			return err
		}
		if info.Address, err = promptText("Address", draft.Personal.Address); err != nil {
			return err
		}
		if info.Phone, err = promptText("Phone", draft.Personal.Phone); err != nil {
			return err
		}
		if info.Email, err = promptText("Email", draft.Personal.Email); err != nil {
			return err
		}

		for {
			link, err := promptText("Social link (blank to continue)", "")
			if err != nil {
				return err
			}
			if strings.TrimSpace(link) == "" {
				break
			}
			handles, ok := social.Add(info.Socials, link)
			if !ok {
				continue
			}
			info.Socials = handles
		}

		ok, err := f.submitPersonalInfo(ctx, info)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		f.machine.Advance()
		return nil
	}
}

// submitPersonalInfo validates the step input and, only when the merge was
// accepted, syncs it to the backend. Rejected input never issues a request.
func (f *flow) submitPersonalInfo(ctx context.Context, info types.PersonalInfo) (bool, error) {
	ok, err := f.apply(wizard.StepPersonalInfo, info)
	if err != nil || !ok {
		return false, err
	}
	if err := f.persist(ctx, wizard.StepPersonalInfo, func(ctx context.Context) error {
		return f.client.UpdatePersonalInfo(ctx, types.PersonalInfoUpdate{
			Name:            info.Name,
			CurrentJobTitle: info.JobTitle,
			Address:         info.Address,
			Phone:           info.Phone,
			ResumeEmail:     info.Email,
			Socials:         info.Socials,
		})
	}); err != nil {
		return false, fmt.Errorf("failed to save personal info: %w", err)
	}
	return true, nil
}

// stepJobDescription collects the target job, runs the analyze and compare
// calls, and either generates the questionnaire or skips straight to optimize
// when nothing is missing from the profile.
func (f *flow) stepJobDescription(ctx context.Context) error {
	draft := f.machine.Draft()
	job := types.JobDetails{}

	var err error
	if job.ApplyingJobTitle, err = promptText("Job title", draft.Job.ApplyingJobTitle); err != nil {
		return err
	}
	if job.CompanyName, err = promptText("Company name", draft.Job.CompanyName); err != nil {
		return err
	}
	if job.CompanyWebsite, err = promptText("Company website", draft.Job.CompanyWebsite); err != nil {
		return err
	}

	source, err := promptText("Job posting URL or pasted description", draft.Job.Description)
	if err != nil {
		return err
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		fmt.Println("Fetching job posting...")
		posting, err := ingest.NewFetcher().Fetch(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		if job.ApplyingJobTitle == "" {
			job.ApplyingJobTitle = posting.Title
		}
		job.Description = posting.Text
	} else {
		job.Description = source
	}

	ok, err := f.apply(wizard.StepJobDescription, job)
	if err != nil {
		return err
	}
	if !ok {
		return f.stepJobDescription(ctx)
	}

	fmt.Println("Analyzing job description...")
	analysis, err := f.client.Analyze(ctx, types.AnalyzeRequest{
		JobDescription: job.Description,
		JobRole:        job.ApplyingJobTitle,
		CompanyName:    job.CompanyName,
		SessionID:      f.machine.SessionID(),
	})
	if err != nil {
		return fmt.Errorf("job analysis failed: %w", err)
	}
	fmt.Printf("Found %d requirements, %d keywords\n",
		len(analysis.ParsedRequirements), len(analysis.ExtractedKeywords))

	cmp, err := f.client.CompareSkills(ctx, f.machine.SessionID())
	if err != nil {
		return fmt.Errorf("skill comparison failed: %w", err)
	}
	fmt.Printf("Matched %d requirements, %d missing\n", cmp.TotalMatched, cmp.TotalMissing)

	if cmp.TotalMissing == 0 {
		fmt.Println("Nothing missing, skipping the questionnaire.")
		return f.machine.JumpTo(wizard.StepOptimize)
	}

	fmt.Println("Generating questionnaire...")
	qr, err := f.client.GenerateQuestionnaire(ctx, f.machine.SessionID())
	if err != nil {
		return fmt.Errorf("questionnaire generation failed: %w", err)
	}
	questions := make([]types.Question, 0, len(qr.Questions))
	for _, q := range qr.Questions {
		questions = append(questions, q.ToQuestion())
	}
	f.machine.SetQuestions(questions)
	f.machine.Advance()
	return nil
}

func (f *flow) stepQuestionnaire(ctx context.Context) error {
	questions := f.machine.Draft().Questions
	if len(questions) == 0 {
		f.machine.Advance()
		return nil
	}

	answers := make(map[string]string)
	for i := range questions {
		q := &questions[i]
		answer, err := promptText(q.Question, q.Answer)
		if err != nil {
			return err
		}
		q.Answer = answer
		q.DeriveStatus()
		if answer != "" {
			answers[q.ID] = answer
		}
	}

	ok, err := f.apply(wizard.StepQuestionnaire, questions)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if len(answers) > 0 {
		if err := f.persist(ctx, wizard.StepQuestionnaire, func(ctx context.Context) error {
			res, err := f.client.AnswerQuestions(ctx, types.AnswerRequest{
				SessionID: f.machine.SessionID(),
				Answers:   answers,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Questionnaire %.0f%% complete (%d/%d answered)\n",
				res.Completion, res.AnsweredCount, res.TotalQuestions)
			return nil
		}); err != nil {
			return fmt.Errorf("failed to save answers: %w", err)
		}
	}
	f.machine.Advance()
	return nil
}

// stepOptimize runs the long server-side optimization, printing progress dots
// while it is in flight, then reloads the optimized snapshot into the section
// steps that follow.
func (f *flow) stepOptimize(ctx context.Context) error {
	fmt.Print("Optimizing resume")
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Print(".")
			}
		}
	}()

	var res *types.OptimizeResult
	err := f.persist(ctx, wizard.StepOptimize, func(ctx context.Context) error {
		var err error
		res, err = f.client.Optimize(ctx)
		return err
	})
	close(done)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	fmt.Printf("Applied %d changes\n", res.TotalChanges)
	for _, s := range res.Suggestions {
		fmt.Printf("  - %s\n", s)
	}

	if _, err := f.apply(wizard.StepOptimize, nil); err != nil {
		return err
	}

	// The optimized sections live server-side now; pull them down so the
	// remaining steps start from the optimized values.
	snap, err := f.client.ResumeData(ctx, f.machine.SessionID())
	if err != nil {
		return fmt.Errorf("failed to reload session: %w", err)
	}
	f.seedSections(snap.ToDraft())
	return nil
}

// seedSections walks the machine through the repeated-section steps, merging
// the optimized values so each section editor opens pre-filled. The walk
// finishes at work experience, the step that follows optimize, so the main
// loop picks up from there.
func (f *flow) seedSections(optimized *types.ResumeDraft) {
	seed := func(step wizard.StepKey, raw any) {
		if err := f.machine.JumpTo(step); err != nil {
			return
		}
		seq := f.machine.Sequence(step)
		if _, err := f.machine.Apply(step, seq, raw); err != nil {
			f.logger.Debug("seed skipped", zap.String("step", string(step)), zap.Error(err))
		}
	}
	seed(wizard.StepSkills, optimized.Skills)
	seed(wizard.StepResearch, optimized.ResearchPapers)
	seed(wizard.StepProjects, optimized.Projects)
	seed(wizard.StepEducation, optimized.Educations)
	seed(wizard.StepWorkExperience, optimized.WorkExperiences)
	if optimized.Summary != "" {
		f.summarySeed = optimized.Summary
	}
}

func (f *flow) stepSkills(ctx context.Context) error {
	skills := f.machine.Draft().Skills
	fmt.Printf("%d skills so far\n", len(skills))

	for {
		choice, err := selectOne("Skills", []string{"Add skill", "Import from text", "List", "Done"})
		if err != nil {
			return err
		}
		switch choice {
		case "Add skill":
			skill, err := promptText("Skill", "")
			if err != nil {
				return err
			}
			if strings.TrimSpace(skill) != "" {
				skills = append(skills, strings.TrimSpace(skill))
			}
		case "Import from text":
			text, err := promptText("Paste free text", "")
			if err != nil {
				return err
			}
			parsed, err := f.client.ParseText(ctx, text)
			if err != nil {
				return fmt.Errorf("text parsing failed: %w", err)
			}
			fmt.Printf("Parsed as %s (%.0f%% confidence)\n", parsed.Category, parsed.Confidence*100)
			skills = append(skills, parsed.Data.Skills...)
		case "List":
			for _, s := range skills {
				fmt.Printf("  - %s\n", s)
			}
		case "Done":
			ok, err := f.apply(wizard.StepSkills, skills)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := f.persist(ctx, wizard.StepSkills, func(ctx context.Context) error {
				return f.client.AddKnowledgeGraph(ctx, types.KnowledgeGraphAdd{Skills: skills})
			}); err != nil {
				return fmt.Errorf("failed to save skills: %w", err)
			}
			f.machine.Advance()
			return nil
		}
	}
}

func (f *flow) stepSummary(ctx context.Context) error {
	def := f.machine.Draft().Summary
	if def == "" {
		def = f.summarySeed
	}
	for {
		summary, err := promptText("Professional summary", def)
		if err != nil {
			return err
		}
		ok, err := f.apply(wizard.StepSummary, summary)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
}

// promptText asks for one line of input with an editable default.
func promptText(label, def string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
	}
	out, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt aborted: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// promptSecret asks for masked input.
func promptSecret(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}
	out, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt aborted: %w", err)
	}
	return out, nil
}

// newSelect builds a menu over items. Callers that need the chosen index run
// it themselves; selectOne covers the common label-only case.
func newSelect(label string, items []string) *promptui.Select {
	return &promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
}

// selectOne asks the user to pick one of items.
func selectOne(label string, items []string) (string, error) {
	_, choice, err := newSelect(label, items).Run()
	if err != nil {
		return "", fmt.Errorf("prompt aborted: %w", err)
	}
	return choice, nil
}
