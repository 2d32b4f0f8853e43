package goOnboard

// CheckInbox provides the labels of the screen shown while the user looks for the
// link or code that was sent to them.
type CheckInbox struct {
	identifier Identifier
	l10n       LocalizationContext
}

// Identifier returns where the link or code was sent.
func (c *CheckInbox) Identifier() Identifier { return c.identifier }

func (c *CheckInbox) Title() string    { return c.l10n.text("CheckInboxScreenStrings.title") }
func (c *CheckInbox) SentLink() string { return c.l10n.text("CheckInboxScreenStrings.sentLink") }
func (c *CheckInbox) Change() string   { return c.l10n.text("CheckInboxScreenStrings.change") }
