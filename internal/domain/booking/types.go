package booking

// State is the lifecycle position of a booking attempt.
type State string

const (
	StateEvaluating          State = "evaluating"
	StateSubmitting          State = "submitting"
	StateReserved            State = "reserved"
	StateReconciling         State = "reconciling"
	StateDone                State = "done"
	StateRejected            State = "rejected"
	StatePartiallyReconciled State = "partially_reconciled"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateRejected, StatePartiallyReconciled:
		return true
	default:
		return false
	}
}

// Succeeded reports whether a reservation stands at the end of the attempt.
func (s State) Succeeded() bool {
	return s == StateDone || s == StatePartiallyReconciled
}

func (s State) IsValid() bool {
	switch s {
	case StateEvaluating, StateSubmitting, StateReserved, StateReconciling,
		StateDone, StateRejected, StatePartiallyReconciled:
		return true
	default:
		return false
	}
}

type Step string

const (
	StepReservation Step = "reservation"
	StepCapacity    Step = "capacity"
	StepLoyalty     Step = "loyalty"
)

type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepSucceeded StepStatus = "succeeded"
	// StepNoOp is a step that legitimately had nothing to do, such as crediting an administrator.
	StepNoOp    StepStatus = "noop"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepOutcome is the result of one remote step.
type StepOutcome struct {
	Status     StepStatus `json:"status"`
	Attempts   int        `json:"attempts"`
	Error      string     `json:"error,omitempty"`
	ErrorClass string     `json:"error_class,omitempty"`
	Detail     string     `json:"detail,omitempty"`
}

func Pending() StepOutcome {
	return StepOutcome{Status: StepPending}
}

func Succeeded(attempts int, detail string) StepOutcome {
	return StepOutcome{Status: StepSucceeded, Attempts: attempts, Detail: detail}
}

func NoOp(attempts int, detail string) StepOutcome {
	return StepOutcome{Status: StepNoOp, Attempts: attempts, Detail: detail}
}

func Skipped(detail string) StepOutcome {
	return StepOutcome{Status: StepSkipped, Detail: detail}
}

func Failed(attempts int, class string, err error) StepOutcome {
	o := StepOutcome{Status: StepFailed, Attempts: attempts, ErrorClass: class}
	if err != nil {
		o.Error = err.Error()
	}
	return o
}

// Settled reports whether the step left the backend consistent with the reservation.
func (o StepOutcome) Settled() bool {
	return o.Status == StepSucceeded || o.Status == StepNoOp || o.Status == StepSkipped
}
