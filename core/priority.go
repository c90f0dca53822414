package core

// SchedPolicy identifies the native scheduling class a task ended up in.
type SchedPolicy int

const (
	// PolicyTimeShared is the default OS policy (SCHED_OTHER on Linux).
	PolicyTimeShared SchedPolicy = iota

	// PolicyFIFO is the elevated real-time class (SCHED_FIFO on Linux).
	// Applying it requires privilege; without it the layer degrades to
	// PolicyTimeShared instead of failing task creation.
	PolicyFIFO
)

func (p SchedPolicy) String() string {
	if p == PolicyFIFO {
		return "fifo"
	}
	return "time-shared"
}

// NativePriority is the scheduler class and priority actually requested at
// the OS level for a task. For PolicyFIFO, Priority is the real-time
// priority; for the time-shared fallback after a refused elevation it is
// the niceness applied instead.
type NativePriority struct {
	Policy   SchedPolicy
	Priority int
}

// Elevated native range (Linux SCHED_FIFO): 1 is the least urgent valid
// value, 99 the most urgent.
const (
	fifoMin = 1
	fifoMax = 99
)

// Translate maps an abstract 0..255 priority (0 = most urgent) onto the
// native elevated range. The mapping is linear and monotonic: 0 maps to
// the most urgent native value, 255 to the least urgent, and a more urgent
// abstract value never maps to a less urgent native one. When elevated is
// false the default time-shared policy is returned and the native priority
// carries no meaning.
func Translate(abstract uint8, elevated bool) NativePriority {
	if !elevated {
		return NativePriority{Policy: PolicyTimeShared}
	}
	p := fifoMax - int(uint32(abstract)*uint32(fifoMax-fifoMin)/255)
	if p < fifoMin {
		p = fifoMin
	}
	if p > fifoMax {
		p = fifoMax
	}
	return NativePriority{Policy: PolicyFIFO, Priority: p}
}

// fallbackNice maps an abstract priority onto the niceness range -20..19
// for tasks that could not enter the elevated class. The mapping keeps the
// same urgency ordering: 0 maps to -20, 255 to 19.
func fallbackNice(abstract uint8) int {
	return int(uint32(abstract)*39/255) - 20
}
