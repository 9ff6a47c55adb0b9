package rawdata

import "strings"

// sniffLines is how many leading lines are inspected for a vendor banner.
const sniffLines = 30

const (
	banner23andMe  = "data file generated by 23andMe"
	bannerAncestry = "AncestryDNA raw data download"
)

// DetectFormat inspects the leading lines of an export. Vendor banners win;
// otherwise the field count of the first data row decides. FormatUnknown is
// returned when neither applies.
func DetectFormat(lines []string) Format {
	head := lines
	if len(head) > sniffLines {
		head = head[:sniffLines]
	}

	for _, line := range head {
		if strings.Contains(line, banner23andMe) {
			return Format23andMe
		}
		if strings.Contains(line, bannerAncestry) {
			return FormatAncestry
		}
	}

	for _, line := range head {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch len(strings.Split(line, "\t")) {
		case 4:
			return Format23andMe
		case 5:
			return FormatAncestry
		}
		break
	}

	return FormatUnknown
}
