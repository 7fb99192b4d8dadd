package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
)

// SolveProfileInput is the input schema for the solve_profile tool.
type SolveProfileInput struct {
	Profile   string   `json:"profile" jsonschema:"name of the timer profile, e.g. tmr0"`
	Tolerance *float64 `json:"tolerance,omitempty" jsonschema:"override the profile's maximum relative error"`
}

// SourceInput is one clock source of an ad-hoc search space.
type SourceInput struct {
	Name string  `json:"name,omitempty" jsonschema:"oscillator name, used to label results"`
	Hz   float64 `json:"hz" jsonschema:"source frequency in hertz"`
}

// SpaceInput is the input schema for the solve_space tool.
type SpaceInput struct {
	Sources     []SourceInput `json:"sources" jsonschema:"selectable clock sources in enumeration order"`
	Prescalers  []int         `json:"prescalers" jsonschema:"admissible prescaler divisors"`
	Postscalers []int         `json:"postscalers,omitempty" jsonschema:"admissible postscaler divisors; omit for timers without a postscaler"`
	CountMax    int           `json:"count_max" jsonschema:"exclusive upper bound of the count register, e.g. 65536 for 16 bits"`
	TargetHz    float64       `json:"target_hz" jsonschema:"desired output frequency in hertz"`
	Tolerance   float64       `json:"tolerance" jsonschema:"maximum relative error, e.g. 1e-6"`
}

// ExplainInput is the input schema for the explain tool. Exactly one of
// Profile and Space must be given.
type ExplainInput struct {
	Profile      string      `json:"profile,omitempty" jsonschema:"name of the timer profile"`
	Space        *SpaceInput `json:"space,omitempty" jsonschema:"ad-hoc search space"`
	RejectedOnly bool        `json:"rejected_only,omitempty" jsonschema:"only report rejected combinations"`
}

// ListProfilesInput is the input schema for the list_profiles tool.
type ListProfilesInput struct{}

// SolveOutput is the output schema for the solve tools.
type SolveOutput struct {
	RunID       string            `json:"run_id,omitempty"`
	Profile     string            `json:"profile,omitempty"`
	TargetHz    float64           `json:"target_hz"`
	SingleStage bool              `json:"single_stage"`
	Candidates  []CandidateOutput `json:"candidates"`
	Count       int               `json:"count"`
}

// CandidateOutput represents a single admissible configuration.
type CandidateOutput struct {
	Source        string  `json:"source,omitempty"`
	SourceHz      float64 `json:"source_hz"`
	Prescaler     int     `json:"prescaler"`
	Postscaler    int     `json:"postscaler"`
	Count         int     `json:"count"`
	ActualHz      float64 `json:"actual_hz"`
	RelativeError float64 `json:"relative_error"`
	Reload        uint32  `json:"reload"`
}

// ExplainOutput is the output schema for the explain tool.
type ExplainOutput struct {
	Evaluations []EvaluationOutput `json:"evaluations"`
	Accepted    int                `json:"accepted"`
	Total       int                `json:"total"`
}

// EvaluationOutput reports how one combination fared.
type EvaluationOutput struct {
	CandidateOutput
	Verdict string `json:"verdict"`
}

// ProfilesOutput is the output schema for the list_profiles tool.
type ProfilesOutput struct {
	Profiles []ProfileOutput `json:"profiles"`
}

// ProfileOutput summarises a timer profile.
type ProfileOutput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Builtin     bool     `json:"builtin"`
	Sources     []string `json:"sources"`
	TargetHz    float64  `json:"target_hz"`
	Tolerance   float64  `json:"tolerance"`
	CountMax    int      `json:"count_max"`
	SearchSize  int      `json:"search_size"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "solve_profile",
		Description: "Find clock source, prescaler, postscaler and count settings of a named timer profile that hit its target frequency",
	}, s.handleSolveProfile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "solve_space",
		Description: "Find timer settings for an ad-hoc set of clock sources, divisors, register width and target frequency",
	}, s.handleSolveSpace)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the built-in and user timer profiles",
	}, s.handleListProfiles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "explain",
		Description: "Report the rounded count, achieved frequency, error and verdict of every divisor combination",
	}, s.handleExplain)
}

// handleSolveProfile handles the solve_profile tool invocation.
func (s *Server) handleSolveProfile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SolveProfileInput,
) (*mcp.CallToolResult, SolveOutput, error) {
	profile, err := s.ports.Profile.Get(ctx, input.Profile)
	if err != nil {
		return nil, SolveOutput{}, fmt.Errorf("profile %q: %w", input.Profile, err)
	}

	if input.Tolerance != nil {
		profile.Tolerance = *input.Tolerance
		space := profile.SearchSpace()
		candidates, err := s.ports.Solver.Solve(ctx, space)
		if err != nil {
			return nil, SolveOutput{}, err
		}
		return nil, solveOutput(profile, space, candidates, ""), nil
	}

	run, err := s.ports.Solver.SolveProfile(ctx, profile.Name)
	if err != nil {
		return nil, SolveOutput{}, err
	}
	return nil, solveOutput(profile, run.Space, run.Candidates, run.ID), nil
}

// handleSolveSpace handles the solve_space tool invocation.
func (s *Server) handleSolveSpace(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SpaceInput,
) (*mcp.CallToolResult, SolveOutput, error) {
	profile := input.profile()
	space := profile.SearchSpace()
	if err := space.Validate(); err != nil {
		return nil, SolveOutput{}, err
	}

	candidates, err := s.ports.Solver.Solve(ctx, space)
	if err != nil {
		return nil, SolveOutput{}, err
	}
	return nil, solveOutput(&profile, space, candidates, ""), nil
}

// handleListProfiles handles the list_profiles tool invocation.
func (s *Server) handleListProfiles(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListProfilesInput,
) (*mcp.CallToolResult, ProfilesOutput, error) {
	profiles, err := s.ports.Profile.List(ctx)
	if err != nil {
		return nil, ProfilesOutput{}, err
	}

	output := ProfilesOutput{Profiles: make([]ProfileOutput, len(profiles))}
	for i := range profiles {
		output.Profiles[i] = profileOutput(&profiles[i])
	}
	return nil, output, nil
}

// handleExplain handles the explain tool invocation.
func (s *Server) handleExplain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExplainInput,
) (*mcp.CallToolResult, ExplainOutput, error) {
	var profile *domain.TimerProfile
	switch {
	case input.Profile != "" && input.Space != nil:
		return nil, ExplainOutput{}, fmt.Errorf("give either profile or space: %w", domain.ErrInvalidInput)
	case input.Profile != "":
		p, err := s.ports.Profile.Get(ctx, input.Profile)
		if err != nil {
			return nil, ExplainOutput{}, fmt.Errorf("profile %q: %w", input.Profile, err)
		}
		profile = p
	case input.Space != nil:
		p := input.Space.profile()
		if err := p.SearchSpace().Validate(); err != nil {
			return nil, ExplainOutput{}, err
		}
		profile = &p
	default:
		return nil, ExplainOutput{}, fmt.Errorf("profile or space is required: %w", domain.ErrInvalidInput)
	}

	space := profile.SearchSpace()
	evaluations, err := s.ports.Solver.Explain(ctx, space)
	if err != nil {
		return nil, ExplainOutput{}, err
	}

	output := ExplainOutput{
		Evaluations: make([]EvaluationOutput, 0, len(evaluations)),
		Total:       len(evaluations),
	}
	for _, e := range evaluations {
		if e.Accepted() {
			output.Accepted++
			if input.RejectedOnly {
				continue
			}
		}
		output.Evaluations = append(output.Evaluations, EvaluationOutput{
			CandidateOutput: candidateOutput(profile, space, e.Candidate),
			Verdict:         e.Verdict.String(),
		})
	}
	return nil, output, nil
}

// profile converts the input to an unnamed profile so sources keep their labels.
func (in SpaceInput) profile() domain.TimerProfile {
	p := domain.TimerProfile{
		Prescalers:  in.Prescalers,
		Postscalers: in.Postscalers,
		CountMax:    in.CountMax,
		Target:      domain.Freq(in.TargetHz),
		Tolerance:   in.Tolerance,
	}
	for _, src := range in.Sources {
		p.Sources = append(p.Sources, domain.ClockSource{Name: src.Name, Frequency: domain.Freq(src.Hz)})
	}
	return p
}

func solveOutput(profile *domain.TimerProfile, space domain.SearchSpace, candidates []domain.Candidate, runID string) SolveOutput {
	output := SolveOutput{
		RunID:       runID,
		TargetHz:    float64(space.Target),
		SingleStage: space.SingleStage(),
		Candidates:  make([]CandidateOutput, len(candidates)),
		Profile:     profile.Name,
		Count:       len(candidates),
	}
	for i, c := range candidates {
		output.Candidates[i] = candidateOutput(profile, space, c)
	}
	return output
}

func candidateOutput(profile *domain.TimerProfile, space domain.SearchSpace, c domain.Candidate) CandidateOutput {
	out := CandidateOutput{
		Source:        profile.SourceName(c.Source),
		SourceHz:      float64(c.Source),
		Prescaler:     c.Prescaler,
		Postscaler:    c.Postscaler,
		Count:         c.Count,
		ActualHz:      float64(c.Actual),
		RelativeError: c.RelativeError,
	}
	if c.Count >= 1 && c.Count < space.CountMax {
		out.Reload = c.Reload(space.CountMax).Value
	}
	return out
}

func profileOutput(p *domain.TimerProfile) ProfileOutput {
	sources := make([]string, len(p.Sources))
	for i, s := range p.Sources {
		sources[i] = fmt.Sprintf("%s (%s)", s.Name, s.Frequency)
	}
	return ProfileOutput{
		Name:        p.Name,
		Description: p.Description,
		Builtin:     p.Builtin,
		Sources:     sources,
		TargetHz:    float64(p.Target),
		Tolerance:   p.Tolerance,
		CountMax:    p.CountMax,
		SearchSize:  p.SearchSpace().Size(),
	}
}
