package event

import "strconv"

func hexUint(n uint64) string { return strconv.FormatUint(n, 16) }

func hexInt(n int) string { return strconv.FormatInt(int64(n), 16) }
