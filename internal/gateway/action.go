package gateway

// Plan is a subscription plan accepted by the gateway.
type Plan string

const (
	PlanDaily   Plan = "DAILY"
	PlanWeekly  Plan = "WEEKLY"
	PlanMonthly Plan = "MONTHLY"
)

// Kind names one of the gateway's outbound operations.
type Kind string

const (
	KindNotify    Kind = "notify"
	KindSubscribe Kind = "subscribe"
	KindCharge    Kind = "charge"
)

// Action is one outbound gateway call. Message is set for notify actions,
// Plan for subscribe and charge.
type Action struct {
	Kind       Kind
	Subscriber string
	Plan       Plan
	Message    string
}

// Outcome reports a successful delivery: the raw response body and how many
// attempts it took.
type Outcome struct {
	Success  bool
	Body     string
	Attempts int
}
