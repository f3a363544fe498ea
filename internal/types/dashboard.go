package types

// DashboardDataKey is the fixed key of the single dashboard config row
const DashboardDataKey = "dashboard-config"

// DashboardCard is one KPI card of the legacy manual dashboard
type DashboardCard struct {
	Value    string   `json:"value"`
	Subtitle string   `json:"subtitle"`
	Goal     string   `json:"goal,omitempty"`
	Trend    string   `json:"trend,omitempty"`
	Progress *float64 `json:"progress,omitempty"`
}

// CrisisEntry is one month of the crisis management chart
type CrisisEntry struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// IRProjectsEntry is one sample of the IR projects chart
type IRProjectsEntry struct {
	Month  string             `json:"month"`
	Values map[string]float64 `json:"values"`
}

// MonthlyTrackingEntry is one month of the bug/issue tracking chart
type MonthlyTrackingEntry struct {
	Month  string `json:"month"`
	Bugs   int    `json:"bugs"`
	Issues int    `json:"issues"`
}

// SupportBugEntry is one month of the support bug score chart
type SupportBugEntry struct {
	Month  string `json:"month"`
	Score0 int    `json:"score0"`
	Score1 int    `json:"score1"`
	Score2 int    `json:"score2"`
	Score3 int    `json:"score3"`
	Score4 int    `json:"score4"`
}

// DashboardCards holds the fixed card set of the manual dashboard
type DashboardCards struct {
	CriticalBugs         DashboardCard `json:"criticalBugs"`
	BugRetention         DashboardCard `json:"bugRetention"`
	BugsPerUser          DashboardCard `json:"bugsPerUser"`
	Efficiency           DashboardCard `json:"efficiency"`
	RefinedBacklog       DashboardCard `json:"refinedBacklog"`
	CodeCoverage         DashboardCard `json:"codeCoverage"`
	Availability         DashboardCard `json:"availability"`
	MTTR                 DashboardCard `json:"mttr"`
	TechnicalInitiatives DashboardCard `json:"technicalInitiatives"`
}

// IRProjectsChart groups the IR projects series by squad
type IRProjectsChart struct {
	Squads []string          `json:"squads"`
	Data   []IRProjectsEntry `json:"data"`
}

// DashboardCharts holds the chart series of the manual dashboard
type DashboardCharts struct {
	CrisisManagement []CrisisEntry          `json:"crisisManagement"`
	IRProjects       IRProjectsChart        `json:"irProjects"`
	MonthlyTracking  []MonthlyTrackingEntry `json:"monthlyTracking"`
	SupportBugs      []SupportBugEntry      `json:"supportBugs"`
}

// DashboardData is the freeform config document behind the legacy manual
// dashboard, stored as a single JSON blob keyed by DashboardDataKey.
// Writes replace the whole payload.
type DashboardData struct {
	Cards  DashboardCards  `json:"cards"`
	Charts DashboardCharts `json:"charts"`
}

func progress(v float64) *float64 { return &v }

// DefaultDashboardData returns the embedded default document served when
// no stored payload can be retrieved.
func DefaultDashboardData() *DashboardData {
	return &DashboardData{
		Cards: DashboardCards{
			CriticalBugs: DashboardCard{Value: "27", Subtitle: "26% do total em setembro"},
			BugRetention: DashboardCard{Value: "42%", Subtitle: "Agosto: 32%"},
			BugsPerUser:  DashboardCard{Value: "0,28", Subtitle: "2024: 0,31", Goal: "0,26", Trend: "-9% YoY"},
			Efficiency:   DashboardCard{Value: "86%", Subtitle: "Meta: 85%", Goal: "85%", Trend: "+1%", Progress: progress(86)},
			RefinedBacklog: DashboardCard{
				Value: "98%", Subtitle: "Meta: 50%", Goal: "50%", Progress: progress(98),
			},
			CodeCoverage: DashboardCard{
				Value: "99,77%", Subtitle: "Meta: 100%", Goal: "100%", Trend: "-0,23%", Progress: progress(99.77),
			},
			Availability: DashboardCard{Value: "99,9%", Subtitle: "Meta: 99,9%", Progress: progress(100)},
			MTTR:         DashboardCard{Value: "18 min", Subtitle: "Mean Time To Recovery"},
			TechnicalInitiatives: DashboardCard{
				Value: "9,25%", Subtitle: "Meta: 7,5%", Goal: "7,5%", Trend: "+23%", Progress: progress(123),
			},
		},
		Charts: DashboardCharts{
			CrisisManagement: []CrisisEntry{
				{Month: "Jan", Count: 6}, {Month: "Fev", Count: 4}, {Month: "Mar", Count: 9},
				{Month: "Abr", Count: 3}, {Month: "Mai", Count: 15}, {Month: "Jun", Count: 2},
				{Month: "Jul", Count: 3}, {Month: "Ago", Count: 2}, {Month: "Set", Count: 8},
			},
			IRProjects: IRProjectsChart{
				Squads: []string{"Controladoria", "RH", "Empresarial"},
				Data: []IRProjectsEntry{
					{Month: "01 Ago", Values: map[string]float64{"Controladoria": 0.57, "RH": 0.2, "Empresarial": 0.2}},
					{Month: "08 Ago", Values: map[string]float64{"Controladoria": 0.65, "RH": 0.22, "Empresarial": 0.24}},
					{Month: "15 Ago", Values: map[string]float64{"Controladoria": 0.75, "RH": 0.25, "Empresarial": 0.26}},
					{Month: "22 Ago", Values: map[string]float64{"Controladoria": 0.85, "RH": 0.28, "Empresarial": 0.28}},
					{Month: "01 Set", Values: map[string]float64{"Controladoria": 1, "RH": 0.3, "Empresarial": 0.3}},
				},
			},
			MonthlyTracking: []MonthlyTrackingEntry{
				{Month: "Jan", Bugs: 120, Issues: 45}, {Month: "Fev", Bugs: 115, Issues: 50},
				{Month: "Mar", Bugs: 108, Issues: 42}, {Month: "Abr", Bugs: 125, Issues: 38},
				{Month: "Mai", Bugs: 95, Issues: 55}, {Month: "Jun", Bugs: 130, Issues: 48},
				{Month: "Jul", Bugs: 85, Issues: 52}, {Month: "Ago", Bugs: 98, Issues: 45},
				{Month: "Set", Bugs: 88, Issues: 40},
			},
			SupportBugs: []SupportBugEntry{
				{Month: "Jan", Score1: 21, Score2: 34, Score3: 28, Score4: 18},
				{Month: "Fev", Score1: 26, Score2: 38, Score3: 30, Score4: 22},
				{Month: "Mar", Score1: 24, Score2: 36, Score3: 32, Score4: 20},
				{Month: "Abr", Score1: 28, Score2: 40, Score3: 34, Score4: 24},
				{Month: "Mai", Score1: 22, Score2: 32, Score3: 28, Score4: 18},
				{Month: "Jun", Score1: 30, Score2: 48, Score3: 38, Score4: 28},
				{Month: "Jul", Score1: 26, Score2: 42, Score3: 36, Score4: 24},
				{Month: "Ago", Score1: 28, Score2: 44, Score3: 38, Score4: 26},
				{Month: "Set", Score1: 24, Score2: 40, Score3: 34, Score4: 22},
			},
		},
	}
}
