package tournament

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	idPrefix        = "tournament_"
	backupSeparator = "::backup::"
)

// IDFromTitle derives the storage id for a tournament title.
// Every character that is not a letter or digit becomes an underscore.
func IDFromTitle(title string) string {
	if strings.HasPrefix(title, idPrefix) {
		return title
	}
	var b strings.Builder
	b.WriteString(idPrefix)
	for _, r := range title {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func matchID(now time.Time, counter int) string {
	return fmt.Sprintf("match-%d-%d", now.UnixMilli(), counter)
}

func finalMatchID(now time.Time, round int) string {
	return fmt.Sprintf("match-%d-final%d", now.UnixMilli(), round)
}

func backupID(tournamentID string, now time.Time) string {
	return tournamentID + backupSeparator + strconv.FormatInt(now.UnixMilli(), 10)
}

// splitBackupID returns the tournament id a backup id refers to.
// ok is false when the value carries no backup suffix.
func splitBackupID(id string) (tournamentID string, ok bool) {
	tournamentID, _, ok = strings.Cut(id, backupSeparator)
	return tournamentID, ok
}
