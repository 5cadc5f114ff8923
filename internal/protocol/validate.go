package protocol

// validateName rejects empty strings and the literal sentinel "None",
// per spec §4.A's field validators for handle/name/game_id/move_id.
func validateName(field, value string) error {
	if value == "" {
		return NewRequestError(ReasonInvalidRequest, field+" must not be empty")
	}
	if value == "None" {
		return NewRequestError(ReasonInvalidRequest, field+` must not be the literal "None"`)
	}
	return nil
}

func validatePlayerCount(n int) error {
	if !validPlayerCounts[n] {
		return NewRequestError(ReasonInvalidRequest, "players must be 2, 3, or 4")
	}
	return nil
}

func validateHandleList(field string, handles []string, allowEmpty bool) error {
	if !allowEmpty && len(handles) == 0 {
		return NewRequestError(ReasonInvalidRequest, field+" must be non-empty")
	}
	for _, h := range handles {
		if err := validateName(field+" entry", h); err != nil {
			return err
		}
	}
	return nil
}

func validateVisibility(v string) error {
	if !Visibility(v).valid() {
		return NewRequestError(ReasonInvalidRequest, "visibility must be Public or Private")
	}
	return nil
}
