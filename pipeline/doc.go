// Package pipeline implements the frame data hand-off between the
// simulation thread (producer) and the render thread (consumer): a
// lock-free triple buffer for GPU-bound columnar data, a draw-command
// queue, and a single-producer/single-consumer Mirror for small
// out-of-band state like the camera.
package pipeline
