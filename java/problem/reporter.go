package problem

// Reporter receives problems in detection order.
type Reporter interface {
	Report(p *Problem)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(p *Problem)

func (f ReporterFunc) Report(p *Problem) { f(p) }

// Collector stores problems in the order they are reported.
type Collector struct {
	problems []*Problem
}

func (c *Collector) Report(p *Problem) {
	c.problems = append(c.problems, p)
}

func (c *Collector) Problems() []*Problem {
	return c.problems
}

func (c *Collector) Len() int {
	return len(c.problems)
}

// Errors counts the problems with error severity.
func (c *Collector) Errors() int {
	n := 0
	for _, p := range c.problems {
		if p.IsError() {
			n++
		}
	}
	return n
}

func (c *Collector) HasErrors() bool {
	return c.Errors() > 0
}

// Tee forwards every problem to each reporter in turn.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(p *Problem) {
		for _, r := range reporters {
			if r != nil {
				r.Report(p)
			}
		}
	})
}
