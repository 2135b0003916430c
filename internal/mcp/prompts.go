package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Prompts manages MCP prompts
type Prompts struct{}

// NewPrompts creates a new prompts manager
func NewPrompts() *Prompts {
	return &Prompts{}
}

// Register adds all prompts to the MCP server
func (p *Prompts) Register(s *server.MCPServer) error {
	s.AddPrompt(mcp.NewPrompt("create_automation",
		mcp.WithPromptDescription("Guide the user through creating a Home Assistant automation"),
		mcp.WithArgument("trigger_type", mcp.RequiredArgument(), mcp.ArgumentDescription("Trigger type (time, state, event, etc.)")),
		mcp.WithArgument("entity_id", mcp.ArgumentDescription("Entity the automation should act on (optional)")),
	), p.createAutomationHandler)

	s.AddPrompt(mcp.NewPrompt("debug_automation",
		mcp.WithPromptDescription("Troubleshoot an automation that is not working"),
		mcp.WithArgument("automation_id", mcp.RequiredArgument(), mcp.ArgumentDescription("Entity ID of the automation to debug")),
	), p.debugAutomationHandler)

	s.AddPrompt(mcp.NewPrompt("troubleshoot_entity",
		mcp.WithPromptDescription("Diagnose issues with a misbehaving entity"),
		mcp.WithArgument("entity_id", mcp.RequiredArgument(), mcp.ArgumentDescription("Entity ID to troubleshoot")),
	), p.troubleshootEntityHandler)

	s.AddPrompt(mcp.NewPrompt("routine_optimizer",
		mcp.WithPromptDescription("Analyze usage patterns and suggest automations that match household routines"),
	), p.routineOptimizerHandler)

	s.AddPrompt(mcp.NewPrompt("automation_health_check",
		mcp.WithPromptDescription("Review all automations for conflicts, redundancies and improvements"),
	), p.automationHealthCheckHandler)

	return nil
}

func promptArg(request mcp.GetPromptRequest, key, def string) string {
	if v, ok := request.Params.Arguments[key]; ok && v != "" {
		return v
	}
	return def
}

func promptResult(description, prompt string) *mcp.GetPromptResult {
	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(prompt)),
	}
	return mcp.NewGetPromptResult(description, messages)
}

func (p *Prompts) createAutomationHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	triggerType := promptArg(request, "trigger_type", "state")
	entityID := promptArg(request, "entity_id", "(not specified)")

	prompt := `You are a Home Assistant automation expert. Help me create an automation step by step.

## Context
- Trigger Type: ` + triggerType + `
- Target Entity: ` + entityID + `

## Workflow

1. **Clarify the Goal**
   - Ask what the automation should accomplish
   - Confirm the trigger details (time, state change, event data)

2. **Inspect the Involved Entities**
   - Use get_entity to check current states and available attributes
   - Use domain_summary_tool to find related entities worth including

3. **Draft the Automation**
   - Build the trigger, condition and action blocks
   - Prefer specific entity states over templates when possible

4. **Create It**
   - Use configure_component with component_type 'automation'
   - Verify with list_automations afterwards

Start by confirming the goal, then inspect the entities before drafting anything.`

	return promptResult("Create a Home Assistant automation", prompt), nil
}

func (p *Prompts) debugAutomationHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	automationID := promptArg(request, "automation_id", "")

	prompt := `You are a Home Assistant automation debugger. Find out why an automation is not behaving as expected.

## Context
- Automation: ` + automationID + `

## Debugging Workflow

1. **Check the Automation Itself**
   - Use get_entity to check its state (is it 'on'?) and last_triggered
   - Use list_automations to confirm it exists and is loaded

2. **Inspect the Trigger Entities**
   - Use get_entity and get_history on each trigger entity
   - Confirm the trigger condition actually occurred in the history window

3. **Check the Error Log**
   - Use get_error_log and look for the automation's name or ID

4. **Propose a Fix**
   - Explain the most likely cause
   - If a config change is needed, apply it with configure_component (update=true)

Work through these steps in order and report findings at each stage.`

	return promptResult("Debug a Home Assistant automation", prompt), nil
}

func (p *Prompts) troubleshootEntityHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	entityID := promptArg(request, "entity_id", "")

	prompt := `You are a Home Assistant entity troubleshooter.

## Context
- Entity: ` + entityID + `

## Troubleshooting Workflow

1. **Current State**
   - Use get_entity with detailed=true to see the full record
   - Watch for 'unavailable' or 'unknown' states

2. **Recent Behavior**
   - Use get_history to see how the state evolved over the last 24 hours
   - Look for gaps or flapping between states

3. **Related Entities**
   - Use search_entities_tool with the device name to find sibling entities
   - Check whether the whole device or just one entity is affected

4. **Error Log**
   - Use get_error_log and search for the entity or its integration

Summarize the likely root cause and suggest concrete next steps.`

	return promptResult("Troubleshoot a Home Assistant entity", prompt), nil
}

func (p *Prompts) routineOptimizerHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	prompt := `You are a Home Assistant routine analyst. Find patterns in how the home is used and suggest automations that encode them.

## Analysis Workflow

1. **Survey the System**
   - Use system_overview to understand what devices exist
   - Use list_automations to see what is already automated

2. **Mine Usage Patterns**
   - Use get_history on frequently used entities (lights, climate, media players)
   - Look for recurring times, sequences and correlations

3. **Suggest Automations**
   - Propose automations that capture the observed routines
   - Note energy-saving opportunities (devices left on, heating overlaps)

4. **Implement on Request**
   - Create approved automations with configure_component

Present suggestions as a prioritized list with the evidence behind each one.`

	return promptResult("Optimize household routines", prompt), nil
}

func (p *Prompts) automationHealthCheckHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	prompt := `You are a Home Assistant automation auditor. Review every automation for problems.

## Audit Workflow

1. **Inventory**
   - Use list_automations to get the full list
   - Note any automation that has never triggered or is turned off

2. **Conflict Detection**
   - Look for automations acting on the same entities with opposing actions
   - Look for overlapping triggers that could race

3. **Redundancy and Dead Weight**
   - Flag automations referencing entities that no longer exist (verify with get_entity)
   - Flag duplicated logic that could be merged

4. **Report**
   - Produce a table: automation, issue, severity, suggested fix
   - Apply agreed fixes with configure_component or delete_component

Be conservative: recommend deletions only when an automation is clearly broken.`

	return promptResult("Audit all automations", prompt), nil
}
