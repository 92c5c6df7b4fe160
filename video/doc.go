// Package video delivers decoded SDK video frames to a foreign delegate.
//
// A [Sink] is handed to the SDK as an sdk.VideoSink. For every frame it
// converts the YUV 4:2:0 planes (I420 or NV12, BT.601 limited range) into a
// single newly allocated ARGB8888 buffer, four bytes per pixel in the order
// A, R, G, B with A always 0xFF, and calls the [Delegate] with the stream id,
// track id, dimensions and buffer. The receiver owns all three allocations.
//
// Frames with an unsupported format, invalid dimensions or short planes are
// dropped and counted; the delegate is not called for them.
package video
