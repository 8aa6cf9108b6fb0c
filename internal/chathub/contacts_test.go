package chathub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizblog/gateway/internal/models"
)

func submitTicket(t *testing.T, h *testHub, requester *mockClient) string {
	t.Helper()
	h.emit(t, requester, "submitContactForm", map[string]string{"name": "Ana", "email": "ana@x.com", "subject": "Help"})
	replies := requester.events("contactFormSubmitted")
	require.Len(t, replies, 1)
	return replies[0].(models.ContactFormSubmitted).ContactID
}

func TestContacts_SubmitNotifiesAdmins(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	otherNS := h.connect("admin2", models.NamespaceDefault, admin("a2", "Cat"))
	requester := h.connect("req", models.NamespaceSupport, nil)
	otherNS.drain()

	h.emit(t, requester, "submitContactForm", map[string]string{"name": "Ana", "email": "ana@x.com", "subject": "Help"})

	replies := requester.events("contactFormSubmitted")
	require.Len(t, replies, 1)
	reply := replies[0].(models.ContactFormSubmitted)
	assert.NotEmpty(t, reply.ContactID)
	assert.Equal(t, msgContactReceived, reply.Message)
	assert.Equal(t, msgEstimatedResponse, reply.EstimatedResponse)

	notices := staff.events("newContactSubmission")
	require.Len(t, notices, 1)
	assert.Equal(t, reply.ContactID, notices[0].(*models.ContactSession).ID)
	assert.Equal(t, models.ContactPending, notices[0].(*models.ContactSession).Status)
	assert.Empty(t, otherNS.drain())

	assert.Equal(t, 1, h.counters.totalContacts)
	require.Len(t, h.published.events, 1)
	ev := h.published.events[0]
	assert.Equal(t, models.TopicContactSubmitted, ev.Topic)
	assert.Equal(t, []string{"a1"}, ev.Payload.(models.ContactEvent).NotifiedAdmins)
}

func TestContacts_SubmitValidation(t *testing.T) {
	h := newTestHub(t)
	requester := h.connect("req", models.NamespaceSupport, nil)

	h.emit(t, requester, "submitContactForm", map[string]string{"name": "Ana"})
	h.emit(t, requester, "submitContactForm", map[string]string{"name": "Ana", "email": "not-an-email"})
	h.emit(t, requester, "submitContactForm", nil)

	errs := requester.events("contactFormError")
	require.Len(t, errs, 3)
	assert.Equal(t, msgContactRequired, errs[0].(models.ErrorPayload).Message)
	assert.Equal(t, msgContactEmail, errs[1].(models.ErrorPayload).Message)
	assert.Empty(t, h.contacts)
}

func TestContacts_DoubleClaim(t *testing.T) {
	h := newTestHub(t)
	first := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	second := h.connect("admin2", models.NamespaceSupport, admin("a2", "Cat"))
	requester := h.connect("req", models.NamespaceSupport, nil)
	id := submitTicket(t, h, requester)
	first.drain()
	second.drain()

	h.emit(t, first, "claimContact", id)
	h.emit(t, second, "claimContact", id)

	claimed := first.events("contactClaimed")
	require.Len(t, claimed, 1)
	detail := claimed[0].(models.ContactClaimed)
	require.NotNil(t, detail.Contact)
	assert.Equal(t, "Ana", detail.Contact.Name)
	assert.Equal(t, contactRoomID(id), detail.RoomID)

	var claimErr *models.ContactError
	for _, o := range second.drain() {
		if o.Event == "claimError" {
			e := o.Data.(models.ContactError)
			claimErr = &e
		}
	}
	require.NotNil(t, claimErr)
	assert.Equal(t, "Bob", claimErr.ClaimedBy)
	assert.Equal(t, msgAlreadyClaimed, claimErr.Message)

	contact := h.contacts[id]
	assert.Equal(t, "a1", contact.Assigned.UserID)
	assert.Equal(t, models.ContactInProgress, contact.Status)
	require.Contains(t, h.chats, id)
	assert.Equal(t, "admin1", h.chats[id].AdminConnID)
	assert.Contains(t, h.rooms[contactRoomID(id)].Members, "admin1")
	assert.NotContains(t, h.assignTimers, id)
}

func TestContacts_AdminOnlyIsSilent(t *testing.T) {
	h := newTestHub(t)
	requester := h.connect("req", models.NamespaceSupport, user("u1", "Ana"))
	id := submitTicket(t, h, requester)

	h.emit(t, requester, "claimContact", id)
	h.emit(t, requester, "resolveContact", id)
	h.emit(t, requester, "getContactStats", nil)
	h.emit(t, requester, "getPendingContacts", nil)

	assert.Empty(t, requester.drain())
	assert.Nil(t, h.contacts[id].Assigned)
	assert.Equal(t, models.ContactPending, h.contacts[id].Status)
}

func TestContacts_ClaimUnknown(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	h.emit(t, staff, "claimContact", map[string]string{"contactId": "nope"})
	errs := staff.events("claimError")
	require.Len(t, errs, 1)
	assert.Equal(t, msgContactNotFound, errs[0].(models.ContactError).Message)
}

func TestContacts_ChatMessages(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	requester := h.connect("req", models.NamespaceSupport, nil)
	stranger := h.connect("other", models.NamespaceSupport, nil)
	id := submitTicket(t, h, requester)
	h.emit(t, staff, "claimContact", id)
	staff.drain()
	requester.drain()

	h.emit(t, staff, "sendContactMessage", models.ContactMessageRequest{ContactID: id, Message: "How can I help?"})
	inRoom := staff.events("contactMessage")
	require.Len(t, inRoom, 1)
	pushed := requester.events("adminResponse")
	require.Len(t, pushed, 1)
	assert.Equal(t, "admin", pushed[0].(models.ContactMessage).Role)

	// once the requester joins the chat it receives room traffic instead
	h.emit(t, requester, "joinContactChat", id)
	joined := requester.events("contactChatJoined")
	require.Len(t, joined, 1)
	assert.Len(t, joined[0].(models.ContactChatJoined).Messages, 1)

	h.emit(t, requester, "sendContactMessage", models.ContactMessageRequest{ContactID: id, Message: "My quiz is broken"})
	h.emit(t, staff, "sendContactMessage", models.ContactMessageRequest{ContactID: id, Message: "On it"})
	out := requester.drain()
	require.Len(t, out, 2)
	assert.Equal(t, "contactMessage", out[0].Event)
	assert.Equal(t, "user", out[0].Data.(models.ContactMessage).Role)
	assert.Equal(t, "contactMessage", out[1].Event)

	assert.Len(t, h.chats[id].Messages, 3)
	assert.Equal(t, 3, h.counters.messagesExchanged)

	h.emit(t, stranger, "sendContactMessage", models.ContactMessageRequest{ContactID: id, Message: "hi"})
	h.emit(t, stranger, "joinContactChat", id)
	assert.Empty(t, stranger.drain())
	assert.Len(t, h.chats[id].Messages, 3)

	h.emit(t, staff, "sendContactMessage", models.ContactMessageRequest{ContactID: "unknown", Message: "x"})
	errs := staff.events("messageError")
	require.Len(t, errs, 1)
	assert.Equal(t, msgChatNotFound, errs[0].(models.ErrorPayload).Message)
}

func TestContacts_Typing(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	requester := h.connect("req", models.NamespaceSupport, nil)
	id := submitTicket(t, h, requester)
	h.emit(t, staff, "claimContact", id)
	requester.drain()

	h.emit(t, staff, "contactTyping", models.ContactTypingRequest{ContactID: id, IsTyping: true})
	typing := requester.events("contactTyping")
	require.Len(t, typing, 1)
	assert.Equal(t, "Bob", typing[0].(models.ContactTyping).UserName)
}

func TestContacts_ResolveRunningAverage(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	requester := h.connect("req", models.NamespaceSupport, nil)

	first := submitTicket(t, h, requester)
	h.emit(t, staff, "claimContact", first)
	h.clock.Advance(10 * time.Minute)
	second := submitTicket(t, h, requester)
	h.clock.Advance(20 * time.Minute)
	staff.drain()
	requester.drain()

	h.emit(t, staff, "resolveContact", first)
	resolved := staff.events("contactResolved")
	require.Len(t, resolved, 1)
	assert.Equal(t, models.ContactResolution{ContactID: first, ResolvedBy: "Bob", ResponseTime: 30}, resolved[0])
	assert.Len(t, requester.events("contactResolved"), 1)
	assert.NotContains(t, h.chats, first)
	assert.NotContains(t, h.rooms, contactRoomID(first))
	assert.Empty(t, h.conns["admin1"].rooms)

	h.emit(t, staff, "resolveContact", second)
	assert.InDelta(t, 25.0, h.counters.avgResponseMins, 1e-9)

	c := h.contacts[first]
	assert.Equal(t, models.ContactResolved, c.Status)
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, "Bob", c.ResolvedBy)

	staff.drain()
	h.emit(t, staff, "resolveContact", first)
	h.emit(t, staff, "resolveContact", "missing")
	errs := staff.events("resolveError")
	require.Len(t, errs, 2)
	assert.Equal(t, msgAlreadyResolved, errs[0].(models.ContactError).Message)
	assert.Equal(t, msgContactNotFound, errs[1].(models.ContactError).Message)

	h.emit(t, staff, "getContactStats", nil)
	stats := staff.events("contactStats")
	require.Len(t, stats, 1)
	assert.Equal(t, models.ContactStats{
		TotalContacts:       2,
		ResolvedContacts:    2,
		OnlineAdmins:        1,
		AverageResponseTime: 25,
	}, stats[0])
}

func TestContacts_PendingListNewestFirst(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	requester := h.connect("req", models.NamespaceSupport, nil)

	older := submitTicket(t, h, requester)
	h.clock.Advance(time.Minute)
	newer := submitTicket(t, h, requester)
	h.clock.Advance(time.Minute)
	claimed := submitTicket(t, h, requester)
	h.emit(t, staff, "claimContact", claimed)
	staff.drain()

	h.emit(t, staff, "getPendingContacts", nil)
	lists := staff.events("pendingContacts")
	require.Len(t, lists, 1)
	pending := lists[0].([]models.ContactSession)
	require.Len(t, pending, 2)
	assert.Equal(t, newer, pending[0].ID)
	assert.Equal(t, older, pending[1].ID)
}

func TestContacts_AdminDisconnectAllowsTakeover(t *testing.T) {
	h := newTestHub(t)
	first := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	second := h.connect("admin2", models.NamespaceSupport, admin("a2", "Cat"))
	requester := h.connect("req", models.NamespaceSupport, nil)
	id := submitTicket(t, h, requester)
	h.emit(t, first, "claimContact", id)
	h.emit(t, first, "sendContactMessage", models.ContactMessageRequest{ContactID: id, Message: "hello"})
	second.drain()
	requester.drain()

	h.unregister("admin1")
	require.Contains(t, h.chats, id, "chat survives the admin leaving")
	assert.Empty(t, h.chats[id].AdminConnID)
	assert.Equal(t, models.ContactInProgress, h.contacts[id].Status)

	notices := second.events("adminDisconnected")
	require.Len(t, notices, 1)
	assert.Equal(t, "Bob", notices[0].(models.AdminDisconnected).AdminName)
	assert.Len(t, requester.events("adminDisconnected"), 1)
	assert.Contains(t, h.published.topics(), models.TopicContactUnclaimed)

	h.emit(t, second, "joinContactChat", id)
	joined := second.events("contactChatJoined")
	require.Len(t, joined, 1)
	assert.Len(t, joined[0].(models.ContactChatJoined).Messages, 1)
	assert.Equal(t, "admin2", h.chats[id].AdminConnID)
	assert.Equal(t, "a2", h.contacts[id].Assigned.UserID)
}

func TestContacts_RequesterDisconnectClearsPointer(t *testing.T) {
	h := newTestHub(t)
	staff := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	requester := h.connect("req", models.NamespaceSupport, user("u1", "Ana"))
	id := submitTicket(t, h, requester)
	h.emit(t, staff, "claimContact", id)

	h.unregister("req")
	assert.Empty(t, h.contacts[id].RequesterConnID)

	// the same user reconnecting can rejoin its chat
	back := h.connect("req2", models.NamespaceSupport, user("u1", "Ana"))
	h.emit(t, back, "joinContactChat", map[string]string{"contactId": id})
	assert.Len(t, back.events("contactChatJoined"), 1)
	assert.Equal(t, "req2", h.contacts[id].RequesterConnID)
}

func TestSelectAdmin(t *testing.T) {
	admins := []string{"a", "b", "c"}
	var picks []string
	for i := 0; i < 5; i++ {
		p, ok := SelectAdmin(i, admins)
		require.True(t, ok)
		picks = append(picks, p)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b"}, picks)

	_, ok := SelectAdmin(3, nil)
	assert.False(t, ok)
}

func TestAutoAssign(t *testing.T) {
	h := newTestHub(t)
	first := h.connect("admin1", models.NamespaceSupport, admin("a1", "Bob"))
	h.clock.Advance(time.Second)
	second := h.connect("admin2", models.NamespaceSupport, admin("a2", "Cat"))
	requester := h.connect("req", models.NamespaceSupport, nil)

	one := submitTicket(t, h, requester)
	two := submitTicket(t, h, requester)
	claimed := submitTicket(t, h, requester)
	h.emit(t, first, "claimContact", claimed)
	first.drain()
	second.drain()

	h.clock.Advance(5 * time.Minute)
	h.runPending(t)
	h.runPending(t)

	got := map[string]string{}
	for _, d := range first.events("autoAssignedContact") {
		got[d.(models.AutoAssignedContact).ContactID] = "admin1"
	}
	for _, d := range second.events("autoAssignedContact") {
		got[d.(models.AutoAssignedContact).ContactID] = "admin2"
	}
	assert.Len(t, got, 2)
	assert.Contains(t, got, one)
	assert.Contains(t, got, two)
	assert.NotEqual(t, got[one], got[two], "round robin spreads tickets")
	assert.NotContains(t, got, claimed)
	assert.Equal(t, 2, h.counters.assignAttempts)
	assert.Empty(t, h.assignTimers)
}

func TestAutoAssign_NoAdmins(t *testing.T) {
	h := newTestHub(t)
	requester := h.connect("req", models.NamespaceSupport, nil)
	id := submitTicket(t, h, requester)

	h.clock.Advance(5 * time.Minute)
	h.runPending(t)

	assert.Equal(t, models.ContactPending, h.contacts[id].Status)
	assert.Equal(t, []string{models.TopicContactSubmitted, models.TopicContactUnclaimed}, h.published.topics())
}
