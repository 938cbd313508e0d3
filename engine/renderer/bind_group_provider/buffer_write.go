package bind_group_provider

// BufferWrite is a queued upload of Data into the buffer a provider holds at Binding, starting at Offset bytes.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}
