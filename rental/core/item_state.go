package core

// ItemState is the state of one catalog item, projected from the events of its item stream.
type ItemState struct {
	Exists    bool
	Available bool
	RentalID  RentalIDString
}

// ProjectItem builds the state of the item that currently has the given name.
//
// Renames move the state: after ItemRenamed the old name no longer exists
// and the new name takes over availability and open rental.
func ProjectItem(history DomainEvents, itemName ItemNameString) ItemState {
	state := ItemState{}

	for _, event := range history {
		switch e := event.(type) {
		case ItemAddedToCatalog:
			if e.ItemName == itemName {
				state = ItemState{Exists: true, Available: true}
			}

		case ItemRenamed:
			if e.ItemName == itemName {
				state = ItemState{}
			}

			if e.NewItemName == itemName {
				state = ItemState{Exists: true, Available: e.Available, RentalID: e.RentalID}
			}

		case ItemRemovedFromCatalog:
			if e.ItemName == itemName {
				state = ItemState{}
			}

		case RentalOpened:
			if e.ItemName == itemName && state.Exists {
				state.Available = false
				state.RentalID = e.RentalID
			}

		case RentalClosed:
			if e.ItemName == itemName && state.Exists {
				state.Available = true
				state.RentalID = ""
			}
		}
	}

	return state
}
