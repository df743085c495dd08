package plan

import "github.com/tgienger/planner/internal/models"

type phaseDef struct {
	name        string
	description string
	startWeeks  int
	endWeeks    int // 0 means the project's target end date
	epics       []epicDef
}

type epicDef struct {
	name        string
	description string
	tasks       []taskDef
}

type taskDef struct {
	name        string
	description string
	assignee    string
	priority    models.Priority
	dueInDays   int // 0 means no due date
}

func (p phaseDef) span(project *models.Project) (start, end *models.Date) {
	start = project.StartDate.AddWeeks(p.startWeeks).Ptr()
	if p.endWeeks == 0 {
		return start, project.TargetEndDate.Ptr()
	}
	return start, project.StartDate.AddWeeks(p.endWeeks).Ptr()
}

const (
	high   = models.PriorityHigh
	medium = models.PriorityMedium
	low    = models.PriorityLow
)

// skeleton is the standard delivery plan with team names filled in
func skeleton(t Team) []phaseDef {
	offshore := t.OffshorePM + " (Offshore Team)"

	return []phaseDef{
		{
			name:        "Phase 1: Inception & Detailed Planning (Weeks 1-4)",
			description: "Establish foundational understanding, detailed requirements, and initial design for key modules.",
			startWeeks:  0,
			endWeeks:    4,
			epics: []epicDef{
				{
					name:        "Requirements Gathering & Reverse Engineering",
					description: "Gather business & technical requirements, reverse engineer vendor product.",
					tasks: []taskDef{
						{"Client Kick-off & Expectations Alignment", "Formal kick-off with client to align on scope and communication.", t.SSA1, high, 3},
						{"Vendor Product Architecture Deep Dive", "Dissect existing on-prem MDM product for architecture, APIs, and customization points.", t.SSA1 + ", " + t.SA2, high, 7},
						{"Detailed MDM Customization Requirements", "Workshops with client BAs for data quality, validations, UI, RBAC.", t.SSA1, high, 14},
						{"Ingress Source System Data Mapping (Initial 5)", "Detailed data mapping for the first 5 critical ingress sources.", t.SA2, high, 14},
					},
				},
				{
					name:        "Technical Design & Initial POCs",
					description: "Develop overall architectural design and conduct critical proof of concepts.",
					tasks: []taskDef{
						{"Overall ETL/MDM Solution Architecture", "Design the end-to-end architecture for Ingress, MDM, and Egress.", t.SSA1, high, 21},
						{"MDM Customization Framework POC", "Prove out a customization approach for the vendor MDM product.", t.SA2, high, 21},
						{"Ingress Data Pipeline POC (Connector)", "Validate connectivity and initial data extraction from a complex source.", t.SA2, medium, 28},
						{"Offshore Team Onboarding & Environment Setup", "Ensure offshore team has access, tools, and dev environments ready.", t.OffshorePM, high, 28},
					},
				},
			},
		},
		{
			name:        "Phase 2: Iterative Development & Delivery (Months 2-6)",
			description: "Develop, unit test, and deliver functional modules in iterations.",
			startWeeks:  4,
			endWeeks:    24,
			epics: []epicDef{
				{
					name:        "Ingress Module Development",
					description: "Develop data pipelines for 20 source systems into MDM.",
					tasks: []taskDef{
						{"Ingress Source 1-5 Development & Unit Test", "Develop and unit test pipelines for first 5 critical sources.", offshore, high, 0},
						{"Ingress Source 6-10 Development & Unit Test", "Develop and unit test pipelines for next 5 critical sources.", offshore, medium, 0},
						{"Ingress Source 11-20 Development & Unit Test", "Develop and unit test pipelines for remaining sources.", offshore, low, 0},
						{"Ingress Data Quality & Error Handling", "Implement robust data quality checks and error logging for all pipelines.", t.SA2, high, 0},
					},
				},
				{
					name:        "Egress Module Development",
					description: "Pull data from CRM, identify deltas, and write to CSV files.",
					tasks: []taskDef{
						{"Egress CRM Data Extraction Design", "Design efficient extraction of CRM data.", t.SA2, high, 0},
						{"Egress Delta Logic Implementation", "Implement logic to identify and process data deltas.", offshore, high, 0},
						{"Egress CSV File Generation", "Develop module to generate formatted CSV files.", offshore, medium, 0},
						{"Egress Scheduling & Monitoring", "Schedule egress runs and alert on failed or late file drops.", offshore, medium, 0},
					},
				},
				{
					name:        "MDM Customization & Configuration",
					description: "Implement Data Quality, Validations, UI, RBAC based on requirements.",
					tasks: []taskDef{
						{"MDM Data Quality Rules Implementation", "Implement core data quality rules within MDM.", offshore, high, 0},
						{"MDM Data Validation Logic", "Implement custom data validation rules.", offshore, high, 0},
						{"MDM UI Customization (Key Screens)", "Customize essential UI screens for data stewardship.", offshore, medium, 0},
						{"MDM RBAC Configuration & Testing", "Configure Role-Based Access Control and test permissions.", t.SA2, high, 0},
						{"MDM Workflow Customization (if applicable)", "Customize data approval/stewardship workflows.", offshore, medium, 0},
						{"MDM Match & Merge Rules Tuning", "Tune match and survivorship rules against production-like data volumes.", t.SA2, high, 0},
					},
				},
			},
		},
		{
			name:        "Phase 3: UAT & Deployment Readiness (Month 7)",
			description: "Achieve client sign-off on functionality, prepare for production deployment.",
			startWeeks:  24,
			endWeeks:    0,
			epics: []epicDef{
				{
					name:        "User Acceptance Testing (UAT)",
					description: "Client-led testing and defect resolution.",
					tasks: []taskDef{
						{"UAT Test Case Review & Preparation", "Work with client BAs to finalize UAT test cases.", t.SSA1, high, 0},
						{"UAT Environment Setup & Data Load", "Prepare and load data into UAT environment.", t.SA2, high, 0},
						{"UAT Defect Triage & Resolution Cycles", "Manage, prioritize, and resolve defects found during UAT.", offshore + ", " + t.SSA1, high, 0},
					},
				},
				{
					name:        "Deployment Readiness & Go-Live",
					description: "Final preparations for production deployment.",
					tasks: []taskDef{
						{"Production Deployment Plan", "Develop detailed plan including rollback strategy.", t.SSA1, high, 0},
						{"Pre-Go-Live System Health Checks", "Perform final checks on performance, data integrity.", t.SA2, high, 0},
						{"Post-Go-Live Support Plan", "Define support structure for immediate post-deployment.", t.SSA1, high, 0},
					},
				},
			},
		},
	}
}
