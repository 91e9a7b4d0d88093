package domain

// Classification labels one PayrollSegment's pay treatment. Order matters:
// ShiftSplitter breaks same-instant ties by this enum order (spec §4.3
// "Output ordering").
type Classification int

const (
	ClassificationRegular Classification = iota
	ClassificationOvertimeT1
	ClassificationOvertimeT2
	ClassificationOvertimeT3
	ClassificationOvertimeT4
	ClassificationSabbathBase
	ClassificationSabbathOvertimeT1
	ClassificationSabbathOvertimeT2
	ClassificationHolidayBase
	ClassificationHolidayOvertimeT1
	ClassificationHolidayOvertimeT2
	ClassificationFridayEvening
)

func (c Classification) String() string {
	switch c {
	case ClassificationRegular:
		return "regular"
	case ClassificationOvertimeT1:
		return "overtime_t1"
	case ClassificationOvertimeT2:
		return "overtime_t2"
	case ClassificationOvertimeT3:
		return "overtime_t3"
	case ClassificationOvertimeT4:
		return "overtime_t4"
	case ClassificationSabbathBase:
		return "sabbath_base"
	case ClassificationSabbathOvertimeT1:
		return "sabbath_ot_t1"
	case ClassificationSabbathOvertimeT2:
		return "sabbath_ot_t2"
	case ClassificationHolidayBase:
		return "holiday_base"
	case ClassificationHolidayOvertimeT1:
		return "holiday_ot_t1"
	case ClassificationHolidayOvertimeT2:
		return "holiday_ot_t2"
	case ClassificationFridayEvening:
		return "friday_evening"
	default:
		return "unknown"
	}
}

// Premium reports whether this is one of the sabbath_* or holiday_*
// classifications, which earn a CompensatoryDay. friday_evening is not
// included, even though it is priced at the premium base multiplier.
func (c Classification) Premium() bool {
	switch c {
	case ClassificationSabbathBase, ClassificationSabbathOvertimeT1, ClassificationSabbathOvertimeT2:
		return true
	case ClassificationHolidayBase, ClassificationHolidayOvertimeT1, ClassificationHolidayOvertimeT2:
		return true
	default:
		return false
	}
}
