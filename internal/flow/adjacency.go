package flow

// successors is the legal adjacency table. The menu is cyclic; there is no
// terminal flow.
var successors = map[ID][]ID{
	MainMenu:            {GeneratingAddresses, UserConfirm},
	GeneratingAddresses: {MainMenu},
	UserConfirm:         {Signing, MainMenu},
	Signing:             {SignedSuccessfully, MainMenu},
	SignedSuccessfully:  {MainMenu},
}

// Legal reports whether from may hand over to to.
func Legal(from, to ID) bool {
	for _, id := range successors[from] {
		if id == to {
			return true
		}
	}
	return false
}

// Successors returns a copy of the legal successors of id.
func Successors(id ID) []ID {
	out := make([]ID, len(successors[id]))
	copy(out, successors[id])
	return out
}
