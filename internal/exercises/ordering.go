package exercises

import (
	"sort"
	"strings"
)

// machinePrecedence fixes the apparatus display order for the feed. Any
// category outside the table, including records with no machine type at
// all, shares the rank after the last known apparatus.
var machinePrecedence = map[string]int{
	"mat":           1,
	"reformer":      2,
	"wunda chair":   3,
	"cadillac":      4,
	"spring board":  5,
	"ladder barrel": 6,
}

// One past the last entry in machinePrecedence.
const unknownMachineRank = 7

func machineRank(machineType *string) int {
	if machineType == nil {
		return unknownMachineRank
	}
	if rank, ok := machinePrecedence[strings.ToLower(*machineType)]; ok {
		return rank
	}
	return unknownMachineRank
}

// SortForFeed imposes the feed's total display order in place: apparatus
// precedence first, then the spreadsheet row order within each group. The
// sort is stable, so equal keys keep their relative input order.
func SortForFeed(list []Exercise) {
	sort.SliceStable(list, func(i, j int) bool {
		rankI, rankJ := machineRank(list[i].MachineType), machineRank(list[j].MachineType)
		if rankI != rankJ {
			return rankI < rankJ
		}
		return list[i].Order < list[j].Order
	})
}
