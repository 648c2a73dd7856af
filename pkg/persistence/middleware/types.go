package middleware

import "github.com/aretw0/motion/pkg/ports"

// Middleware allows wrapping a FrameStore to add behavior.
type Middleware func(ports.FrameStore) ports.FrameStore
