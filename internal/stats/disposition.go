package stats

import (
	"strings"

	"github.com/alertops/socstats/internal/domain/alert"
)

// Disposition is an analyst's final classification of an alert. The set
// is closed: category keys are machine identifiers, display labels are
// presentation-only and never drive computation.
type Disposition string

const (
	DispositionFalsePositive    Disposition = "false_positive"
	DispositionPolicyViolation  Disposition = "policy_violation"
	DispositionReconnaissance   Disposition = "reconnaissance"
	DispositionWeaponization    Disposition = "weaponization"
	DispositionDelivery         Disposition = "delivery"
	DispositionExploitation     Disposition = "exploitation"
	DispositionInstallation     Disposition = "installation"
	DispositionCommandAndControl Disposition = "command_and_control"
	DispositionExfil            Disposition = "exfil"
	DispositionDamage           Disposition = "damage"
	DispositionGrayware         Disposition = "grayware"

	// DispositionUndispositioned is the reserved bucket for alerts that
	// have no disposition yet or carry one outside the known set.
	DispositionUndispositioned Disposition = "undispositioned"
)

// killchain ordering, used for stable column order in every table.
var dispositionOrder = []Disposition{
	DispositionFalsePositive,
	DispositionPolicyViolation,
	DispositionReconnaissance,
	DispositionWeaponization,
	DispositionDelivery,
	DispositionExploitation,
	DispositionInstallation,
	DispositionCommandAndControl,
	DispositionExfil,
	DispositionDamage,
	DispositionGrayware,
	DispositionUndispositioned,
}

var dispositionLabels = map[Disposition]string{
	DispositionFalsePositive:     "False Positive",
	DispositionPolicyViolation:   "Policy Violation",
	DispositionReconnaissance:    "Reconnaissance",
	DispositionWeaponization:     "Weaponization",
	DispositionDelivery:          "Delivery",
	DispositionExploitation:      "Exploitation",
	DispositionInstallation:      "Installation",
	DispositionCommandAndControl: "Command and Control",
	DispositionExfil:             "Exfiltration",
	DispositionDamage:            "Damage",
	DispositionGrayware:          "Grayware",
	DispositionUndispositioned:   "Undispositioned",
}

// Dispositions returns the full ordered category list, undispositioned last.
func Dispositions() []Disposition {
	out := make([]Disposition, len(dispositionOrder))
	copy(out, dispositionOrder)
	return out
}

// Valid reports whether d is one of the enumerated categories.
func (d Disposition) Valid() bool {
	_, ok := dispositionLabels[d]
	return ok
}

// Label returns the human-friendly display label for d.
func (d Disposition) Label() string {
	if label, ok := dispositionLabels[d]; ok {
		return label
	}
	return string(d)
}

// Categorize maps a record's disposition to its canonical category key.
// Unknown and absent dispositions both land in the undispositioned
// bucket; a record is never dropped here.
func Categorize(r alert.Record) Disposition {
	if r.Disposition == nil {
		return DispositionUndispositioned
	}
	d := Disposition(strings.ToLower(strings.TrimSpace(*r.Disposition)))
	if !d.Valid() {
		return DispositionUndispositioned
	}
	return d
}
