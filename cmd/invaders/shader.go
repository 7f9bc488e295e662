package main

// The quad is generated from gl_VertexID, so no vertex buffer is bound.
// Drawn as a 4 vertex triangle strip.
const vertex = `
#version 420

out vec2 uv;

void main() {
    vec2 corner = vec2(gl_VertexID & 1, gl_VertexID >> 1);
    uv = vec2(corner.x, 1 - corner.y);
    gl_Position = vec4(corner * 2 - 1, 0, 1);
}
`

const fragment = `
#version 420

layout (binding = 0) uniform sampler2D screen;

in  vec2 uv;
out vec4 color;

void main() {
    color = texture(screen, uv);
}
`
