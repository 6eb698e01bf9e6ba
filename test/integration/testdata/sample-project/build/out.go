// TODO: build output, ignored
