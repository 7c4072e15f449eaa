package response

import "github.com/jinzhu/copier"

// copyInto maps a read view onto its response shape field by field name.
func copyInto[T any](src any) (*T, error) {
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		return nil, err
	}
	return &dst, nil
}
