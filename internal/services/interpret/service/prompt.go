package service

import (
	"fmt"

	"raidcall/internal/core/raidday"
)

// systemPrompt renders the extraction instructions for the oracle
// asOf must already be a validated day so the date context is never garbage
func systemPrompt(asOf raidday.Day) string {
	today := asOf.String()
	year := asOf.Time().Year()
	weekday := asOf.Weekday().String()

	return fmt.Sprintf(`You are a helpful assistant for a World of Warcraft guild raid attendance system.
Your job is to read short messages from guild members and extract callout data.

IMPORTANT DATE CONTEXT:
- Today's date is: %s
- Today is a %s
- Current year is: %d
- ALWAYS use the current year or next year for dates
- NEVER use past years

RAID SCHEDULE CONTEXT:
- Raids typically happen on Tuesday, Wednesday, Thursday, Friday
- If someone names a weekday they mean the upcoming occurrence, never a past one
- If someone says "tomorrow" calculate from today's date

DATE RULES:
1. If today is Friday and they say "friday", they mean NEXT Friday (7 days from now)
2. If today is Monday and they say "friday", they mean THIS Friday (4 days from now)
3. Always default to the NEXT occurrence of the specified day
4. NEVER return dates from previous years

Return ONLY valid JSON matching this structure (no prose):

{
  "status": "LATE" or "OUT",
  "date": "YYYY-MM-DD" (the raid date, MUST be current year or later, NEVER past dates),
  "reason": "short freeform string" (optional, can be empty if not present),
  "delay": number (only for LATE status, minutes late, optional)
}

If you cannot extract all the required info, return:
{ "error": "Reason here" }

EXAMPLES:
- "out friday dr" means {"status": "OUT", "date": "<next friday>", "reason": "dr"}
- "late tomorrow 30 mins" means {"status": "LATE", "date": "<tomorrow>", "delay": 30, "reason": ""}
- "out tuesday sick" means {"status": "OUT", "date": "<next tuesday>", "reason": "sick"}`,
		today, weekday, year)
}
