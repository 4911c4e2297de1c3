package core

import (
	"slices"
	"strings"
)

// ClientDisplayKey returns the key clients are matched by, e.g. "Anna Nowak".
func ClientDisplayKey(firstName, lastName string) string {
	return firstName + " " + lastName
}

// ClientDisplayName returns the name shown for a client in rentals and history, e.g. "Anna Nowak (123456789)".
func ClientDisplayName(firstName, lastName, phone string) string {
	return ClientDisplayKey(firstName, lastName) + " (" + phone + ")"
}

// IsBlank reports whether a required value is missing.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// ClientState is the state of one client, projected from its events.
type ClientState struct {
	Exists    bool
	FirstName string
	LastName  string
	Phone     string
}

// DisplayName returns the display name of the client.
func (s ClientState) DisplayName() string {
	return ClientDisplayName(s.FirstName, s.LastName, s.Phone)
}

// Equals reports whether the client already has exactly these values.
func (s ClientState) Equals(firstName, lastName, phone string) bool {
	return s.FirstName == firstName && s.LastName == lastName && s.Phone == phone
}

// ProjectClient builds the state of the client with the given ID. Events of other clients are ignored.
func ProjectClient(history DomainEvents, clientID ClientIDString) ClientState {
	state := ClientState{}

	for _, event := range history {
		switch e := event.(type) {
		case ClientRegistered:
			if e.ClientID == clientID {
				state = ClientState{Exists: true, FirstName: e.FirstName, LastName: e.LastName, Phone: e.Phone}
			}

		case ClientUpdated:
			if e.ClientID == clientID && state.Exists {
				state.FirstName, state.LastName, state.Phone = e.FirstName, e.LastName, e.Phone
			}

		case ClientRemoved:
			if e.ClientID == clientID {
				state = ClientState{}
			}
		}
	}

	return state
}

// Client is one registered client as listed by the client registry.
type Client struct {
	ClientID  ClientIDString `json:"clientID"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Phone     string         `json:"phone"`
}

// DisplayKey returns the key the client is matched by.
func (c Client) DisplayKey() string {
	return ClientDisplayKey(c.FirstName, c.LastName)
}

// DisplayName returns the display name of the client.
func (c Client) DisplayName() string {
	return ClientDisplayName(c.FirstName, c.LastName, c.Phone)
}

// ApplyClientEvent folds one event into the client registry. Clients stay in registration order.
func ApplyClientEvent(clients []Client, event DomainEvent) []Client {
	switch e := event.(type) {
	case ClientRegistered:
		return append(clients, Client{ClientID: e.ClientID, FirstName: e.FirstName, LastName: e.LastName, Phone: e.Phone})

	case ClientUpdated:
		for i := range clients {
			if clients[i].ClientID == e.ClientID {
				clients[i].FirstName, clients[i].LastName, clients[i].Phone = e.FirstName, e.LastName, e.Phone
			}
		}

	case ClientRemoved:
		return slices.DeleteFunc(clients, func(c Client) bool { return c.ClientID == e.ClientID })
	}

	return clients
}

// ProjectClients builds the client registry in registration order.
func ProjectClients(history DomainEvents) []Client {
	clients := make([]Client, 0)

	for _, event := range history {
		clients = ApplyClientEvent(clients, event)
	}

	return clients
}
