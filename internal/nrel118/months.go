package nrel118

import "fmt"

// Tags stamped on every emitted row. The dataset carries one scenario and
// one representative period.
const (
	Scenario    = "ScenarioA"
	RP          = "rp01"
	DataPackage = "NREL-118-mod"
)

// monthDays lists the day count per monthly timeslice. February has 29 days
// (leap year) and December includes the additional trailing day of the
// dataset.
var monthDays = []struct {
	timeslice string
	days      int
}{
	{"M1", 31}, {"M2", 29}, {"M3", 31}, {"M4", 30}, {"M5", 31}, {"M6", 30},
	{"M7", 31}, {"M8", 31}, {"M9", 30}, {"M10", 31}, {"M11", 30}, {"M12", 32},
}

// monthTimesliceToK maps each monthly timeslice onto its hourly timestep
// labels, k0001 onward, 24 per day.
func monthTimesliceToK() map[string][]string {
	m := make(map[string][]string, len(monthDays))
	hour := 0
	for _, month := range monthDays {
		ks := make([]string, 0, 24*month.days)
		for i := 0; i < 24*month.days; i++ {
			hour++
			ks = append(ks, kLabel(hour))
		}
		m[month.timeslice] = ks
	}
	return m
}

func kLabel(i int) string {
	return fmt.Sprintf("k%04d", i)
}
