// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides output targets for resolved fragments.
//
// A Target is where a resolve pass writes its encoded colors. Targets differ
// in their backing store and in how much of the resolve output they preserve:
//
//   - PixmapTarget: CPU-backed *image.RGBA. Components are quantized to
//     bytes on Store, which clamps out-of-range values.
//   - Float4Target: flat float vector storage. Components are stored
//     exactly as resolved, including out-of-range values.
//
// # Device Integration
//
// Hosts that own a GPU device (like gogpu.App) hand it to shade through
// DeviceHandle, an alias for gpucontext.DeviceProvider. shade RECEIVES the
// device from the host, it does not create one; the shade/gpu package falls
// back to its own device bring-up only when no host provides one.
//
// # Thread Safety
//
// Target Store and Load are safe for concurrent use as long as no two
// goroutines touch the same pixel. The parallel resolve relies on this:
// tiles partition the target, so worker goroutines never overlap.
package render
