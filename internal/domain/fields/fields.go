package fields

import (
	"fmt"
	"strconv"
)

type MovieDuration int32

func (d MovieDuration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(fmt.Sprintf("%d mins", d))), nil
}
